package ffmpeg

import (
	"fmt"
	"strconv"

	"github.com/backmassage/trackweave/internal/config"
)

// Single-node tempo bound: atempo only accepts ratios in [0.5, 2.0], so any
// factor outside that range is decomposed into a chain (see TempoSteps).
const (
	atempoMin = 0.5
	atempoMax = 2.0
)

// TempoSteps decomposes a tempo factor into per-node ratios whose cumulative
// product equals the factor exactly: boundary-ratio nodes until the residual
// fits the [0.5, 2.0] bound, then one residual node. A factor of 1 yields no
// steps. Halving and doubling are exact in binary floating point, so 0.25
// decomposes into exactly two 0.5 steps.
func TempoSteps(factor float64) []float64 {
	if factor == 1.0 {
		return nil
	}
	var steps []float64
	for factor < atempoMin {
		steps = append(steps, atempoMin)
		factor /= atempoMin
	}
	for factor > atempoMax {
		steps = append(steps, atempoMax)
		factor /= atempoMax
	}
	if factor != 1.0 {
		steps = append(steps, factor)
	}
	return steps
}

// BuildLofiGraph synthesizes the aesthetic coloration chain. Stages are
// appended in fixed order, each consuming whatever the previously enabled
// stage produced (the primary input label when nothing upstream was
// enabled): bed loops and mix, tempo chain, EQ pair, reverb, saturation,
// compression, and the always-present safety limiter as terminal node.
func BuildLofiGraph(cfg *config.Config) *Graph {
	g := &Graph{}
	current := "0:a"

	// Auxiliary beds loop for the whole program; the drum bed can be held
	// back by an initial delay.
	inputIdx := 1
	mixInputs := []string{"0:a"}

	if cfg.Texture != "" {
		g.Add(Node{
			Inputs: []string{fmt.Sprintf("%d:a", inputIdx)},
			Filter: "aloop",
			Params: []Param{{"loop", "-1"}, {"size", "2e+09"}},
			Output: "texture",
		})
		g.Add(Node{
			Inputs: []string{"texture"},
			Filter: "volume",
			Params: []Param{{"", formatGainDB(cfg.TextureGainDB)}},
			Output: "texture_vol",
		})
		mixInputs = append(mixInputs, "texture_vol")
		inputIdx++
	}

	if cfg.Drums != "" {
		drums := g.Add(Node{
			Inputs: []string{fmt.Sprintf("%d:a", inputIdx)},
			Filter: "aloop",
			Params: []Param{{"loop", "-1"}, {"size", "2e+09"}},
			Output: "drums_loop",
		})
		if cfg.DrumsStartS > 0 {
			ms := strconv.Itoa(int(cfg.DrumsStartS * 1000))
			drums = g.Add(Node{
				Inputs: []string{drums},
				Filter: "adelay",
				Params: []Param{{"", ms + "|" + ms}},
				Output: "drums",
			})
		}
		g.Add(Node{
			Inputs: []string{drums},
			Filter: "volume",
			Params: []Param{{"", formatGainDB(cfg.DrumsGainDB)}},
			Output: "drums_vol",
		})
		mixInputs = append(mixInputs, "drums_vol")
		inputIdx++
	}

	// Amplitude mix: primary at unity, beds at their configured gains.
	if len(mixInputs) > 1 {
		current = g.Add(Node{
			Inputs: mixInputs,
			Filter: "amix",
			Params: []Param{
				{"inputs", strconv.Itoa(len(mixInputs))},
				{"normalize", "0"},
			},
			Output: "mixed",
		})
	}

	// Tempo chain (pitch-preserving).
	steps := TempoSteps(cfg.TempoFactor)
	for i, step := range steps {
		out := "tempo"
		if i < len(steps)-1 {
			out = fmt.Sprintf("tempo%d", i)
		}
		current = g.Add(Node{
			Inputs: []string{current},
			Filter: "atempo",
			Params: []Param{{"", formatFloat(step)}},
			Output: out,
		})
	}

	// Gentle EQ pair.
	current = g.Add(Node{
		Inputs: []string{current},
		Filter: "highpass",
		Params: []Param{{"f", strconv.Itoa(cfg.HighpassHz)}},
		Output: "hp",
	})
	current = g.Add(Node{
		Inputs: []string{current},
		Filter: "lowpass",
		Params: []Param{{"f", strconv.Itoa(cfg.LowpassHz)}},
		Output: "lp",
	})

	// Room ambience: short reflections, mostly dry signal.
	if cfg.EnableReverb {
		current = g.Add(Node{
			Inputs: []string{current},
			Filter: "aecho",
			Params: []Param{
				{"in_gain", "0.8"},
				{"out_gain", "0.88"},
				{"delays", "60|120"},
				{"decays", "0.3|0.25"},
			},
			Output: "reverb",
		})
	}

	// Harmonic warmth in the low mids.
	if cfg.EnableSaturation {
		current = g.Add(Node{
			Inputs: []string{current},
			Filter: "asubboost",
			Params: []Param{
				{"dry", "0.5"},
				{"wet", "0.5"},
				{"boost", "3"},
				{"decay", "0.6"},
				{"feedback", "0.6"},
				{"cutoff", "150"},
			},
			Output: "sat",
		})
	}

	// Slow attack/release keeps transients and avoids pumping.
	if cfg.EnableCompression {
		current = g.Add(Node{
			Inputs: []string{current},
			Filter: "acompressor",
			Params: []Param{
				{"ratio", formatFloat(cfg.CompRatio)},
				{"threshold", formatGainDB(cfg.CompThresholdDB)},
				{"attack", formatFloat(cfg.CompAttackMs)},
				{"release", formatFloat(cfg.CompReleaseMs)},
			},
			Output: "comp",
		})
	}

	// Safety limiter, always terminal. Should rarely trigger.
	g.Add(Node{
		Inputs: []string{current},
		Filter: "alimiter",
		Params: []Param{
			{"limit", "-1dB"},
			{"attack", "5"},
			{"release", "50"},
		},
		Output: "out",
	})

	return g
}

// LofiArgs assembles the engine invocation for the aesthetic stage. Inputs
// follow the same order the graph's stream indices assume: primary audio,
// then texture, then drums.
func LofiArgs(cfg *config.Config, inputAudio, outputWAV string, g *Graph) []string {
	args := []string{"ffmpeg", "-hide_banner", "-nostdin", "-i", inputAudio}
	if cfg.Texture != "" {
		args = append(args, "-i", cfg.Texture)
	}
	if cfg.Drums != "" {
		args = append(args, "-i", cfg.Drums)
	}
	args = append(args,
		"-filter_complex", g.String(),
		"-map", "["+g.Terminal()+"]",
	)
	return append(args, outputFormatArgs(outputWAV)...)
}

// MP3Args encodes finished audio to 320 kbps CBR MP3.
func MP3Args(inputAudio, outputMP3 string) []string {
	return []string{
		"ffmpeg", "-hide_banner", "-nostdin",
		"-i", inputAudio,
		"-codec:a", "libmp3lame",
		"-b:a", "320k",
		"-y",
		outputMP3,
	}
}

// formatGainDB renders a decibel value ("-26dB").
func formatGainDB(db float64) string {
	return formatFloat(db) + "dB"
}
