package ffmpeg

import (
	"context"
	"regexp"
	"strconv"
	"time"
)

// detectTimeout bounds the silence scan; it decodes the whole program but
// writes nothing, so it should finish well inside this.
const detectTimeout = 10 * time.Minute

var reSilenceStart = regexp.MustCompile(`silence_start:\s*([\d.]+)`)

// DetectArgs assembles the silence-scan invocation: decode to the null muxer
// with silencedetect logging to stderr.
func DetectArgs(audioPath string, noiseDB float64, minSilenceS float64) []string {
	return []string{
		"ffmpeg", "-hide_banner", "-nostdin",
		"-i", audioPath,
		"-af", "silencedetect=noise=" + formatFloat(noiseDB) + "dB:d=" + formatFloat(minSilenceS),
		"-f", "null",
		"-",
	}
}

// ParseSilenceStarts extracts the silence_start offsets from silencedetect
// stderr output, in emission order. Unparseable matches are skipped.
func ParseSilenceStarts(stderr string) []float64 {
	var starts []float64
	for _, m := range reSilenceStart.FindAllStringSubmatch(stderr, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		starts = append(starts, v)
	}
	return starts
}

// DetectBoundaries scans finished audio for silence gaps and returns candidate
// track boundary offsets. The program start is always a boundary, so the
// candidate list is 0.0 followed by each detected silence onset.
func DetectBoundaries(ctx context.Context, run RunFunc, audioPath string, noiseDB, minSilenceS float64) ([]float64, error) {
	res, err := run(ctx, Request{
		Args:    DetectArgs(audioPath, noiseDB, minSilenceS),
		Timeout: detectTimeout,
	})
	if err != nil {
		return nil, err
	}
	return append([]float64{0.0}, ParseSilenceStarts(res.Stderr)...), nil
}
