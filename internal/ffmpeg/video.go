package ffmpeg

// Fixed video target: 1080p letterbox, one frame per second, H.264 high
// profile with AAC audio. Output is truncated to the shorter of the looped
// image, the audio, and the explicit duration.
const videoScalePad = "scale=1920:1080:force_original_aspect_ratio=decrease," +
	"pad=1920:1080:(ow-iw)/2:(oh-ih)/2:black"

// VideoArgs assembles the still-image video mux invocation.
func VideoArgs(coverImage, audioPath, outputPath string, durationS float64) []string {
	return []string{
		"ffmpeg", "-hide_banner", "-nostdin",
		"-loop", "1",
		"-i", coverImage,
		"-i", audioPath,
		"-c:v", "libx264",
		"-preset", "medium",
		"-tune", "stillimage",
		"-crf", "18",
		"-pix_fmt", "yuv420p",
		"-profile:v", "high",
		"-r", "1",
		"-vf", videoScalePad,
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-t", formatFloat(durationS),
		"-y",
		outputPath,
	}
}
