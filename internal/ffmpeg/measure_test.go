package ffmpeg

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureArgs(t *testing.T) {
	args := MeasureArgs("/in/track.mp3", false)
	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "-af loudnorm=I=-20:TP=-1.5:LRA=11")
	assert.Contains(t, joined, "-f s16le -")

	trimmed := strings.Join(MeasureArgs("/in/track.mp3", true), " ")
	assert.Contains(t, trimmed, "silenceremove=stop_periods=1:stop_duration=0.5:stop_threshold=-50dB,loudnorm")
}

func TestMeasureProcessedDuration(t *testing.T) {
	// 2.5 seconds of 48kHz stereo s16 PCM.
	fake := func(ctx context.Context, req Request) (*Result, error) {
		assert.True(t, req.CaptureStdout)
		return &Result{Stdout: make([]byte, bytesPerSecond*5/2)}, nil
	}

	dur, err := MeasureProcessedDuration(context.Background(), fake, "/in/track.mp3", false)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, dur, 1e-9)
}

func TestMeasureProcessedDurationEmptyStream(t *testing.T) {
	fake := func(ctx context.Context, req Request) (*Result, error) {
		return &Result{}, nil
	}

	dur, err := MeasureProcessedDuration(context.Background(), fake, "/in/track.mp3", true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, dur)
}
