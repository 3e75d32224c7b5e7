// Package config holds runtime configuration: defaults, validation, and YAML
// aesthetic presets. Flag and environment binding lives in internal/cli; this
// package only defines the settings themselves.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// --- Enum types for validated string fields ---

// TimestampMode selects how per-track start offsets are reconstructed after
// the duration-altering merge.
type TimestampMode string

const (
	// TimestampsAnalytical derives offsets from nominal track durations minus
	// crossfade overlap. Cheap, always available (default).
	TimestampsAnalytical TimestampMode = "analytical"
	// TimestampsMeasured re-measures each track's post-trim/loudnorm duration
	// with an extra ffmpeg pass before doing the same arithmetic.
	TimestampsMeasured TimestampMode = "measured"
	// TimestampsDetected locates volume dips in the rendered output and uses
	// them as ground truth when the count matches the track count.
	TimestampsDetected TimestampMode = "detected"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings for one pipeline run. It is populated by
// [DefaultConfig], optionally overlaid with a YAML preset, and then mutated by
// the CLI layer before being passed (by pointer) to packages that need it.
type Config struct {
	// Paths.
	InputDir  string
	OutputDir string

	// Optional assets.
	CoverImage string // Still image for the video stage; empty skips video.
	Texture    string // Looped ambience bed mixed under the program.
	Drums      string // Looped percussion bed mixed under the program.

	// Merge parameters.
	FadeSeconds float64 // Default: 15. Requested crossfade per boundary.
	NumTracks   int     // 0 = all. Otherwise a uniform random subset of this size.
	TrimSilence bool    // Trim trailing silence per track before normalizing.

	// Lofi (aesthetic) parameters.
	SkipLofi          bool
	TempoFactor       float64 // Default: 0.75. 1.0 disables the tempo chain.
	HighpassHz        int     // Default: 35.
	LowpassHz         int     // Default: 11000.
	TextureGainDB     float64 // Default: -26.
	DrumsGainDB       float64 // Default: -22.
	DrumsStartS       float64 // Delay before the drum bed enters.
	EnableReverb      bool    // Default: true.
	EnableSaturation  bool
	EnableCompression bool
	CompRatio         float64 // Default: 2.
	CompThresholdDB   float64 // Default: -20.
	CompAttackMs      float64 // Default: 200.
	CompReleaseMs     float64 // Default: 1000.

	// Tracklist generation.
	WriteTracklist    bool
	Timestamps        TimestampMode // Default: analytical.
	DetectNoiseDB     float64       // Default: -35. Quiet threshold for detection.
	DetectMinSilenceS float64       // Default: 0.1. Minimum dip length to count.

	// Behavior.
	DryRun bool

	// Display and logging.
	Verbose   bool
	LogFile   string
	ColorMode ColorMode // Default: auto.
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		FadeSeconds:       15,
		TempoFactor:       0.75,
		HighpassHz:        35,
		LowpassHz:         11000,
		TextureGainDB:     -26,
		DrumsGainDB:       -22,
		EnableReverb:      true,
		CompRatio:         2,
		CompThresholdDB:   -20,
		CompAttackMs:      200,
		CompReleaseMs:     1000,
		Timestamps:        TimestampsAnalytical,
		DetectNoiseDB:     -35,
		DetectMinSilenceS: 0.1,
		ColorMode:         ColorAuto,
	}
}

// Validate checks value ranges and enum fields. Path existence and
// permissions are checked later by the check package so that all validation
// failures surface before any work begins.
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.FadeSeconds <= 0 {
		return fmt.Errorf("fade must be positive, got %g", c.FadeSeconds)
	}
	if c.NumTracks < 0 {
		return fmt.Errorf("tracks must be >= 0, got %d", c.NumTracks)
	}
	if c.TempoFactor <= 0 {
		return fmt.Errorf("tempo must be positive, got %g", c.TempoFactor)
	}
	if c.HighpassHz <= 0 || c.LowpassHz <= 0 {
		return fmt.Errorf("filter frequencies must be positive (highpass %d, lowpass %d)",
			c.HighpassHz, c.LowpassHz)
	}
	if c.HighpassHz >= c.LowpassHz {
		return fmt.Errorf("highpass (%d Hz) must be below lowpass (%d Hz)",
			c.HighpassHz, c.LowpassHz)
	}
	if c.DrumsStartS < 0 {
		return fmt.Errorf("drums-start must be >= 0, got %g", c.DrumsStartS)
	}
	switch c.Timestamps {
	case TimestampsAnalytical, TimestampsMeasured, TimestampsDetected:
	default:
		return fmt.Errorf("timestamps must be analytical, measured, or detected, got %q", c.Timestamps)
	}
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("color must be auto, always, or never, got %q", c.ColorMode)
	}
	return nil
}

// ValidatePaths rejects an output directory nested inside the input
// directory: the discovery scan would otherwise pick up our own artifacts on
// a second run. Both arguments must be absolute.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	rel, err := filepath.Rel(inputAbs, outputAbs)
	if err != nil {
		return nil
	}
	if rel == "." || !strings.HasPrefix(rel, "..") {
		return fmt.Errorf("output directory must not be inside the input directory")
	}
	return nil
}
