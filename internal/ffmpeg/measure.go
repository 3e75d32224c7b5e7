package ffmpeg

import (
	"context"
	"time"
)

// measureTimeout bounds a single-track decode to raw PCM.
const measureTimeout = 2 * time.Minute

// bytesPerSecond is the raw PCM rate at the fixed output format:
// 48000 Hz * 2 channels * 2 bytes per sample.
const bytesPerSecond = TargetSampleRate * TargetChannels * 2

// MeasureArgs assembles the decode-to-stdout invocation used to measure a
// track's effective duration after the merge stage's per-input processing.
func MeasureArgs(trackPath string, trimSilence bool) []string {
	filter := "loudnorm=I=-20:TP=-1.5:LRA=11"
	if trimSilence {
		filter = "silenceremove=stop_periods=1:stop_duration=0.5:stop_threshold=-50dB," + filter
	}
	return []string{
		"ffmpeg", "-hide_banner", "-nostdin",
		"-i", trackPath,
		"-af", filter,
		"-ar", "48000",
		"-ac", "2",
		"-f", "s16le",
		"-",
	}
}

// MeasureProcessedDuration decodes one track through the same per-input chain
// the merge applies and derives the duration from the raw PCM byte count.
func MeasureProcessedDuration(ctx context.Context, run RunFunc, trackPath string, trimSilence bool) (float64, error) {
	res, err := run(ctx, Request{
		Args:          MeasureArgs(trackPath, trimSilence),
		Timeout:       measureTimeout,
		CaptureStdout: true,
	})
	if err != nil {
		return 0, err
	}
	return float64(len(res.Stdout)) / bytesPerSecond, nil
}
