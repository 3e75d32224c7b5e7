// Package cli wires command-line flags, TRACKWEAVE_ environment variables,
// optional config files, and YAML presets into a validated Config, then
// dispatches the pipeline.
package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/backmassage/trackweave/internal/check"
	"github.com/backmassage/trackweave/internal/config"
	"github.com/backmassage/trackweave/internal/display"
	"github.com/backmassage/trackweave/internal/ffmpeg"
	"github.com/backmassage/trackweave/internal/ledger"
	"github.com/backmassage/trackweave/internal/logging"
	"github.com/backmassage/trackweave/internal/pipeline"
	"github.com/backmassage/trackweave/internal/status"
)

// Version and Commit are set at build time via -ldflags.
var (
	Version = "1.0.0-dev"
	Commit  = "unknown"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "trackweave",
	Short: "Assemble audio clips into one crossfaded lofi program",
	Long: `trackweave merges a directory of audio clips into one continuous
program with loudness normalization and crossfades, optionally applies a lofi
aesthetic filter chain (tempo, EQ, ambience, looped texture/drum beds), and
optionally renders a still-image video. All signal processing is delegated to
ffmpeg; every run writes a manifest recording inputs, parameters, commands,
and hashed outputs.

Configuration precedence: flags > TRACKWEAVE_* environment > --config file >
--preset file > defaults.

Examples:
  trackweave -i ./clips -o ./out
  trackweave -i ./clips -o ./out --cover art.png --tracklist
  trackweave -i ./clips -o ./out --preset tape.yaml --timestamps detected
  TRACKWEAVE_TEMPO=0.8 trackweave -i ./clips -o ./out`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var serr *status.Error
		if errors.As(err, &serr) {
			return status.ExitCode(err)
		}
		// Flag and usage errors from cobra are bad input.
		cobra.WriteStringAndCheck(os.Stderr, "trackweave: "+err.Error()+"\n")
		return 1
	}
	return 0
}

func init() {
	f := rootCmd.Flags()

	// Paths and assets.
	f.StringP("input", "i", "", "input directory of audio clips (required)")
	f.StringP("output", "o", "", "output directory (required)")
	f.String("cover", "", "still image for the video stage (omit to skip video)")
	f.String("texture", "", "looped ambience bed mixed under the program")
	f.String("drums", "", "looped percussion bed mixed under the program")

	// Merge.
	f.Float64("fade", 15, "crossfade duration per track boundary in seconds")
	f.Int("tracks", 0, "randomly select this many tracks (0 = all)")
	f.Bool("trim-silence", false, "trim trailing silence per track before normalizing")

	// Lofi chain.
	f.Bool("skip-lofi", false, "merge only, skip the aesthetic chain")
	f.Float64("tempo", 0.75, "tempo factor (1.0 disables the tempo chain)")
	f.Int("highpass", 35, "highpass cutoff in Hz")
	f.Int("lowpass", 11000, "lowpass cutoff in Hz")
	f.Float64("texture-gain", -26, "texture bed gain in dB")
	f.Float64("drums-gain", -22, "drum bed gain in dB")
	f.Float64("drums-start", 0, "delay before the drum bed enters, in seconds")
	f.Bool("reverb", true, "apply the ambience/reverb stage")
	f.Bool("saturation", false, "apply the harmonic saturation stage")
	f.Bool("compression", false, "apply the dynamics compression stage")
	f.Float64("comp-ratio", 2, "compressor ratio")
	f.Float64("comp-threshold", -20, "compressor threshold in dB")
	f.Float64("comp-attack", 200, "compressor attack in ms")
	f.Float64("comp-release", 1000, "compressor release in ms")

	// Tracklist.
	f.Bool("tracklist", false, "write a timestamped tracklist")
	f.String("timestamps", "analytical", "timestamp strategy: analytical, measured, or detected")
	f.Float64("detect-noise", -35, "silence detection threshold in dB")
	f.Float64("detect-silence", 0.1, "minimum silence length to count, in seconds")

	// Behavior and display.
	f.Bool("dry-run", false, "plan and log commands without rendering anything")
	f.BoolP("verbose", "v", false, "verbose output including engine stderr")
	f.String("log-file", "", "also append logs to this file")
	f.String("color", "auto", "color output: auto, always, or never")

	// Config sources.
	f.String("preset", "", "YAML aesthetic preset file")
	f.String("config", "", "config file (YAML, flag names as keys)")

	cobra.CheckErr(v.BindPFlags(f))
	v.SetEnvPrefix("TRACKWEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

func runRoot(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return status.WrapValidation(err, "invalid configuration")
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		return status.WrapValidation(err, "cannot initialize logging")
	}
	defer log.Close()

	display.PrintBanner()

	if err := resolvePaths(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("=== TrackWeave v%s ===", Version)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	if cfg.DryRun {
		log.Warn("DRY RUN")
	}
	log.Info("")

	ffVersion, err := check.VerifyEngine(ctx, ffmpeg.Run)
	if err != nil {
		log.Error("%v", err)
		return err
	}

	led := ledger.New(Version, ffVersion)
	runner := pipeline.NewRunner(cfg, log, led)
	if err := runner.Execute(ctx); err != nil {
		log.Error("%v", err)
		return err
	}
	return nil
}

// buildConfig resolves the final Config from viper (flags, env, optional
// config file) plus the optional preset overlay. Explicitly set flags and
// environment values win over preset fields.
func buildConfig(flags *pflag.FlagSet) (*config.Config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, status.WrapValidation(err, "cannot read config file")
		}
	}

	cfg := config.DefaultConfig()
	cfg.InputDir = v.GetString("input")
	cfg.OutputDir = v.GetString("output")
	cfg.CoverImage = v.GetString("cover")
	cfg.Texture = v.GetString("texture")
	cfg.Drums = v.GetString("drums")
	cfg.FadeSeconds = v.GetFloat64("fade")
	cfg.NumTracks = v.GetInt("tracks")
	cfg.TrimSilence = v.GetBool("trim-silence")
	cfg.SkipLofi = v.GetBool("skip-lofi")
	cfg.TempoFactor = v.GetFloat64("tempo")
	cfg.HighpassHz = v.GetInt("highpass")
	cfg.LowpassHz = v.GetInt("lowpass")
	cfg.TextureGainDB = v.GetFloat64("texture-gain")
	cfg.DrumsGainDB = v.GetFloat64("drums-gain")
	cfg.DrumsStartS = v.GetFloat64("drums-start")
	cfg.EnableReverb = v.GetBool("reverb")
	cfg.EnableSaturation = v.GetBool("saturation")
	cfg.EnableCompression = v.GetBool("compression")
	cfg.CompRatio = v.GetFloat64("comp-ratio")
	cfg.CompThresholdDB = v.GetFloat64("comp-threshold")
	cfg.CompAttackMs = v.GetFloat64("comp-attack")
	cfg.CompReleaseMs = v.GetFloat64("comp-release")
	cfg.WriteTracklist = v.GetBool("tracklist")
	cfg.Timestamps = config.TimestampMode(v.GetString("timestamps"))
	cfg.DetectNoiseDB = v.GetFloat64("detect-noise")
	cfg.DetectMinSilenceS = v.GetFloat64("detect-silence")
	cfg.DryRun = v.GetBool("dry-run")
	cfg.Verbose = v.GetBool("verbose")
	cfg.LogFile = v.GetString("log-file")
	cfg.ColorMode = config.ColorMode(v.GetString("color"))

	if path := v.GetString("preset"); path != "" {
		p, err := config.LoadPreset(path)
		if err != nil {
			return nil, status.WrapValidation(err, "cannot load preset")
		}
		maskPreset(p, flags)
		p.Apply(&cfg)
	}

	return &cfg, nil
}

// maskPreset clears preset fields whose flags were set explicitly, so the
// command line always wins over the preset file.
func maskPreset(p *config.Preset, flags *pflag.FlagSet) {
	masks := map[string]func(){
		"tempo":          func() { p.Tempo = nil },
		"highpass":       func() { p.HighpassHz = nil },
		"lowpass":        func() { p.LowpassHz = nil },
		"texture":        func() { p.Texture = nil },
		"texture-gain":   func() { p.TextureGain = nil },
		"drums":          func() { p.Drums = nil },
		"drums-gain":     func() { p.DrumsGain = nil },
		"drums-start":    func() { p.DrumsStart = nil },
		"reverb":         func() { p.Reverb = nil },
		"saturation":     func() { p.Saturation = nil },
		"compression":    func() { p.Compression = nil },
		"comp-ratio":     func() { p.CompRatio = nil },
		"comp-threshold": func() { p.CompThresh = nil },
		"comp-attack":    func() { p.CompAttack = nil },
		"comp-release":   func() { p.CompRelease = nil },
	}
	for name, fn := range masks {
		if flags.Changed(name) {
			fn()
		}
	}
}

// resolvePaths guards the input/output relationship before anything is
// created on disk: the nesting check runs on absolute paths first, and only
// then does the preflight create the output directory and probe it.
func resolvePaths(cfg *config.Config) error {
	inputAbs, err := filepath.Abs(cfg.InputDir)
	if err != nil {
		return status.Validationf("cannot resolve input path %s: %v", cfg.InputDir, err)
	}
	outputAbs, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return status.Validationf("cannot resolve output path %s: %v", cfg.OutputDir, err)
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		return status.WrapValidation(err, "invalid paths")
	}
	return check.VerifyPaths(cfg.InputDir, cfg.OutputDir)
}
