package ffmpeg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStderrTail(t *testing.T) {
	stderr := "line one\n\nline two\nline three\nline four\n"
	assert.Equal(t, "line three | line four", StderrTail(stderr, 2))
	assert.Equal(t, "line one | line two | line three | line four", StderrTail(stderr, 10))
	assert.Equal(t, "", StderrTail("", 5))
}

func TestVideoArgs(t *testing.T) {
	args := VideoArgs("/art/cover.png", "/work/lofi.wav", "/out/final.mp4", 3600.5)

	assert.Equal(t, []string{"ffmpeg", "-hide_banner", "-nostdin", "-loop", "1"}, args[:5])
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-i /art/cover.png -i /work/lofi.wav")
	assert.Contains(t, joined, "-c:v libx264")
	assert.Contains(t, joined, "-tune stillimage")
	assert.Contains(t, joined, "-crf 18")
	assert.Contains(t, joined, "-r 1")
	assert.Contains(t, joined, "scale=1920:1080:force_original_aspect_ratio=decrease")
	assert.Contains(t, joined, "pad=1920:1080:(ow-iw)/2:(oh-ih)/2:black")
	assert.Contains(t, joined, "-c:a aac -b:a 192k")
	assert.Contains(t, joined, "-shortest -t 3600.5")
	assert.Equal(t, "/out/final.mp4", args[len(args)-1])
}
