package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/backmassage/trackweave/internal/ingest"
	"github.com/backmassage/trackweave/internal/status"
)

// Target output format shared by every audio stage: 48 kHz stereo 16-bit PCM.
const (
	TargetSampleRate = 48000
	TargetChannels   = 2
)

// loudnormParams is the loudness target applied to every input track before
// crossfading: -20 LUFS integrated, -1.5 dBTP ceiling.
func loudnormParams() []Param {
	return []Param{{"I", "-20"}, {"TP", "-1.5"}, {"LRA", "11"}}
}

// silenceremoveParams trims trailing silence (below -50 dB for 0.5s).
func silenceremoveParams() []Param {
	return []Param{
		{"stop_periods", "1"},
		{"stop_duration", "0.5"},
		{"stop_threshold", "-50dB"},
	}
}

// BuildMergeGraph synthesizes the crossfade-merge graph for n input streams:
// one normalize chain per input, then a left-to-right fold of symmetric
// triangular crossfades. fades must hold n-1 scheduled durations. Callers
// must guarantee n >= 1; zero inputs is a contract violation.
func BuildMergeGraph(n int, fades []float64, trimSilence bool) (*Graph, error) {
	if n < 1 {
		return nil, status.Validationf("cannot build merge graph for zero tracks")
	}
	if len(fades) != n-1 {
		return nil, status.Validationf("merge graph needs %d crossfade durations, got %d", n-1, len(fades))
	}

	g := &Graph{}

	// Per-input normalize chain. Label continuity: the crossfade fold below
	// consumes [normI] regardless of whether trimming is enabled.
	for i := 0; i < n; i++ {
		in := fmt.Sprintf("%d:a", i)
		if trimSilence {
			in = g.Add(Node{
				Inputs: []string{in},
				Filter: "silenceremove",
				Params: silenceremoveParams(),
				Output: fmt.Sprintf("trim%d", i),
			})
		}
		g.Add(Node{
			Inputs: []string{in},
			Filter: "loudnorm",
			Params: loudnormParams(),
			Output: fmt.Sprintf("norm%d", i),
		})
	}

	// Left-to-right crossfade fold. Each node consumes the accumulated
	// stream and the next normalized input, so it must be declared after
	// both producers.
	current := "norm0"
	for i := 0; i < n-1; i++ {
		current = g.Add(Node{
			Inputs: []string{current, fmt.Sprintf("norm%d", i+1)},
			Filter: "acrossfade",
			Params: []Param{
				{"d", formatFloat(fades[i])},
				{"c1", "tri"},
				{"c2", "tri"},
			},
			Output: fmt.Sprintf("a%d", i+1),
		})
	}

	return g, nil
}

// MergeArgs assembles the full engine invocation for the merge stage:
// all inputs, the rendered graph, and the fixed PCM output format.
func MergeArgs(tracks []ingest.Track, g *Graph, outputPath string) []string {
	args := []string{"ffmpeg", "-hide_banner", "-nostdin"}
	for _, t := range tracks {
		args = append(args, "-i", t.Path)
	}
	args = append(args,
		"-filter_complex", g.String(),
		"-map", "["+g.Terminal()+"]",
	)
	return append(args, outputFormatArgs(outputPath)...)
}

// outputFormatArgs is the shared 48kHz/stereo/s16 output tail.
func outputFormatArgs(outputPath string) []string {
	return []string{
		"-ar", strconv.Itoa(TargetSampleRate),
		"-ac", strconv.Itoa(TargetChannels),
		"-sample_fmt", "s16",
		"-y",
		outputPath,
	}
}

// formatFloat renders a float the shortest exact way ("15", "7.45").
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
