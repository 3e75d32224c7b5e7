// Package pipeline sequences the stages of one run: ingest, crossfade merge,
// aesthetic coloration, and the optional video wrapper. Stages run strictly
// one after another; a failure stops forward progress, is classified, and
// still flushes the accumulated run ledger.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/trackweave/internal/check"
	"github.com/backmassage/trackweave/internal/config"
	"github.com/backmassage/trackweave/internal/display"
	"github.com/backmassage/trackweave/internal/ffmpeg"
	"github.com/backmassage/trackweave/internal/ingest"
	"github.com/backmassage/trackweave/internal/ledger"
	"github.com/backmassage/trackweave/internal/planner"
	"github.com/backmassage/trackweave/internal/status"
	"github.com/backmassage/trackweave/internal/tracklist"
)

// Output artifact names, all placed directly in the output directory.
const (
	MergedFile    = "merged.wav"
	LofiFile      = "lofi.wav"
	MP3File       = "final.mp3"
	VideoFile     = "final.mp4"
	TracklistFile = "tracklist.txt"
	ManifestFile  = "manifest.json"
)

// Stage status values recorded in the ledger.
const (
	statusSuccess = "success"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// Logger is the logging surface the orchestrator needs. Satisfied by
// *logging.Logger; tests substitute a silent implementation.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Render(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Runner executes one pipeline run. Invoke and Probe default to the real
// engine bindings; tests replace them with fakes.
type Runner struct {
	Cfg    *config.Config
	Log    Logger
	Led    *ledger.Manifest
	Invoke ffmpeg.RunFunc
	Probe  ingest.ProbeFunc
}

// NewRunner wires a runner against the real engine.
func NewRunner(cfg *config.Config, log Logger, led *ledger.Manifest) *Runner {
	return &Runner{Cfg: cfg, Log: log, Led: led, Invoke: ffmpeg.Run}
}

// Execute runs the full pipeline. The ledger is written on success and
// best-effort on failure; the returned error carries the status kind the
// process should exit with.
func (r *Runner) Execute(ctx context.Context) error {
	if err := r.execute(ctx); err != nil {
		r.Led.AddError(err.Error())
		if werr := r.Led.Write(r.manifestPath()); werr != nil {
			r.Log.Error("cannot write run manifest: %v", werr)
		}
		return err
	}
	if err := r.Led.Write(r.manifestPath()); err != nil {
		return err
	}
	r.Log.Success("Run complete, manifest written to %s", r.manifestPath())
	return nil
}

func (r *Runner) manifestPath() string {
	return filepath.Join(r.Cfg.OutputDir, ManifestFile)
}

func (r *Runner) execute(ctx context.Context) error {
	cfg := r.Cfg

	// Stage 1: ingest.
	start := time.Now()
	res, err := ingest.Stage(ctx, cfg, r.Log, r.Probe)
	if err != nil {
		r.Led.AddStage(ledger.Stage{Name: "ingest", Status: statusFailed, ElapsedS: elapsed(start)})
		return err
	}
	r.recordInputs(res)
	r.Led.AddStage(ledger.Stage{
		Name:        "ingest",
		Status:      statusSuccess,
		ElapsedS:    elapsed(start),
		TracksFound: len(res.Tracks),
	})

	fades, fadeWarnings := planner.ScheduleCrossfades(res.Tracks, cfg.FadeSeconds)
	for _, w := range fadeWarnings {
		r.Log.Warn("%s", w)
		r.Led.AddWarning(w)
	}

	// Advisory only: a tight volume still gets a chance to finish.
	if w := check.SpaceWarning(cfg.InputDir, cfg.OutputDir); w != "" {
		r.Log.Warn("%s", w)
		r.Led.AddWarning(w)
	}

	if err := ctx.Err(); err != nil {
		return status.Processingf("run interrupted")
	}

	// Stage 2: merge.
	mergedPath := filepath.Join(cfg.OutputDir, MergedFile)
	mergedDur, err := r.runMerge(ctx, res.Tracks, fades, mergedPath)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return status.Processingf("run interrupted")
	}

	// Stage 3: aesthetic chain. The final audio feeds the tracklist and
	// video stages below.
	finalAudio := mergedPath
	finalDur := mergedDur
	lofiApplied := false
	switch {
	case cfg.SkipLofi:
		r.Log.Info("=== Stage 3: Lofi (skipped) ===")
		r.Led.AddStage(ledger.Stage{Name: "lofi", Status: statusSkipped, Note: "disabled by flag"})
	default:
		lofiPath := filepath.Join(cfg.OutputDir, LofiFile)
		if err := r.runLofi(ctx, mergedPath, lofiPath, mergedDur); err != nil {
			return err
		}
		if !cfg.DryRun {
			finalAudio = lofiPath
			finalDur = mergedDur / cfg.TempoFactor
			lofiApplied = true
		}
	}

	if err := ctx.Err(); err != nil {
		return status.Processingf("run interrupted")
	}

	// Tracklist, once the final audio is settled.
	if cfg.WriteTracklist && !cfg.DryRun {
		if err := r.writeTracklist(ctx, res.Tracks, fades, finalAudio, lofiApplied); err != nil {
			return err
		}
	}

	// Stage 4: video wrapper.
	switch {
	case cfg.CoverImage == "":
		r.Log.Info("=== Stage 4: Video (skipped) ===")
		r.Led.AddStage(ledger.Stage{Name: "video", Status: statusSkipped, Note: "no cover image configured"})
	default:
		if err := r.runVideo(ctx, finalAudio, finalDur); err != nil {
			return err
		}
	}

	return nil
}

// recordInputs captures everything ingest resolved into the ledger.
func (r *Runner) recordInputs(res *ingest.Result) {
	in := ledger.Inputs{
		OrderSource: res.OrderSource,
		CoverImage:  r.Cfg.CoverImage,
		Texture:     r.Cfg.Texture,
		Drums:       r.Cfg.Drums,
	}
	for _, t := range res.Tracks {
		in.Tracks = append(in.Tracks, ledger.InputTrack{
			Name:       t.Name,
			Path:       t.Path,
			DurationS:  t.DurationS,
			SampleRate: t.SampleRate,
			Channels:   t.Channels,
			Codec:      t.Codec,
			BitRate:    t.BitRate,
		})
	}
	r.Led.Inputs = in
	for _, w := range res.Warnings {
		r.Led.AddWarning(w)
	}

	r.Led.Parameters["fade_seconds"] = r.Cfg.FadeSeconds
	r.Led.Parameters["trim_silence"] = r.Cfg.TrimSilence
	r.Led.Parameters["skip_lofi"] = r.Cfg.SkipLofi
	r.Led.Parameters["tempo_factor"] = r.Cfg.TempoFactor
	r.Led.Parameters["highpass_hz"] = r.Cfg.HighpassHz
	r.Led.Parameters["lowpass_hz"] = r.Cfg.LowpassHz
	r.Led.Parameters["timestamps"] = string(r.Cfg.Timestamps)
	r.Led.Parameters["dry_run"] = r.Cfg.DryRun
}

// runMerge renders the crossfade merge and returns the analytical program
// duration of the merged output.
func (r *Runner) runMerge(ctx context.Context, tracks []ingest.Track, fades []float64, outPath string) (float64, error) {
	r.Log.Info("=== Stage 2: Merge ===")
	start := time.Now()

	g, err := ffmpeg.BuildMergeGraph(len(tracks), fades, r.Cfg.TrimSilence)
	if err != nil {
		return 0, err
	}
	args := ffmpeg.MergeArgs(tracks, g, outPath)

	dur := programDuration(planner.Durations(tracks), fades)
	if r.Cfg.DryRun {
		r.logPlanned(args)
		r.Led.AddStage(ledger.Stage{Name: "merge", Status: statusSkipped, Note: "dry run", CrossfadesApplied: len(fades)})
		return dur, nil
	}

	if err := r.transform(ctx, "merge", args, outPath); err != nil {
		r.Led.AddStage(ledger.Stage{Name: "merge", Status: statusFailed, ElapsedS: elapsed(start)})
		return 0, err
	}
	if err := r.Led.AddOutput("merged", outPath, dur); err != nil {
		return 0, err
	}
	r.Led.AddStage(ledger.Stage{
		Name:              "merge",
		Status:            statusSuccess,
		ElapsedS:          elapsed(start),
		CrossfadesApplied: len(fades),
	})
	r.Log.Success("Merged %d track(s) into %s (%.1fs program) in %s",
		len(tracks), outPath, dur, display.FormatDuration(elapsed(start)))
	return dur, nil
}

// runLofi renders the aesthetic chain and the MP3 encode of its result.
func (r *Runner) runLofi(ctx context.Context, inPath, outPath string, mergedDur float64) error {
	r.Log.Info("=== Stage 3: Lofi ===")
	start := time.Now()

	g := ffmpeg.BuildLofiGraph(r.Cfg)
	args := ffmpeg.LofiArgs(r.Cfg, inPath, outPath, g)
	mp3Path := filepath.Join(r.Cfg.OutputDir, MP3File)
	mp3Args := ffmpeg.MP3Args(outPath, mp3Path)

	if r.Cfg.DryRun {
		r.logPlanned(args)
		r.logPlanned(mp3Args)
		r.Led.AddStage(ledger.Stage{Name: "lofi", Status: statusSkipped, Note: "dry run"})
		return nil
	}

	if err := r.transform(ctx, "lofi", args, outPath); err != nil {
		r.Led.AddStage(ledger.Stage{Name: "lofi", Status: statusFailed, ElapsedS: elapsed(start)})
		return err
	}
	dur := mergedDur / r.Cfg.TempoFactor
	if err := r.Led.AddOutput("lofi", outPath, dur); err != nil {
		return err
	}

	if err := r.transform(ctx, "lofi", mp3Args, mp3Path); err != nil {
		r.Led.AddStage(ledger.Stage{Name: "lofi", Status: statusFailed, ElapsedS: elapsed(start)})
		return err
	}
	if err := r.Led.AddOutput("mp3", mp3Path, dur); err != nil {
		return err
	}

	r.Led.AddStage(ledger.Stage{Name: "lofi", Status: statusSuccess, ElapsedS: elapsed(start)})
	r.Log.Success("Lofi chain rendered to %s and %s in %s",
		outPath, mp3Path, display.FormatDuration(elapsed(start)))
	return nil
}

// runVideo renders the still-image wrapper and copies the cover as the
// thumbnail artifact.
func (r *Runner) runVideo(ctx context.Context, audioPath string, audioDur float64) error {
	r.Log.Info("=== Stage 4: Video ===")
	start := time.Now()

	outPath := filepath.Join(r.Cfg.OutputDir, VideoFile)
	args := ffmpeg.VideoArgs(r.Cfg.CoverImage, audioPath, outPath, audioDur)

	if r.Cfg.DryRun {
		r.logPlanned(args)
		r.Led.AddStage(ledger.Stage{Name: "video", Status: statusSkipped, Note: "dry run"})
		return nil
	}

	if err := r.transform(ctx, "video", args, outPath); err != nil {
		r.Led.AddStage(ledger.Stage{Name: "video", Status: statusFailed, ElapsedS: elapsed(start)})
		return err
	}
	if err := r.Led.AddOutput("video", outPath, audioDur); err != nil {
		return err
	}

	thumbPath := filepath.Join(r.Cfg.OutputDir, "thumbnail"+filepath.Ext(r.Cfg.CoverImage))
	if err := copyFile(r.Cfg.CoverImage, thumbPath); err != nil {
		return status.WrapOutput(err, "cannot copy thumbnail to %s", thumbPath)
	}
	if err := r.Led.AddOutput("thumbnail", thumbPath, 0); err != nil {
		return err
	}

	r.Led.AddStage(ledger.Stage{Name: "video", Status: statusSuccess, ElapsedS: elapsed(start)})
	r.Log.Success("Video rendered to %s", outPath)
	return nil
}

// writeTracklist resolves the timestamp map per the configured mode and
// writes it next to the outputs.
func (r *Runner) writeTracklist(ctx context.Context, tracks []ingest.Track, fades []float64, finalAudio string, lofiApplied bool) error {
	offsets, err := r.resolveOffsets(ctx, tracks, fades, finalAudio, lofiApplied)
	if err != nil {
		return err
	}

	path := filepath.Join(r.Cfg.OutputDir, TracklistFile)
	if err := tracklist.WriteFile(path, planner.Marks(tracks, offsets)); err != nil {
		return err
	}
	if err := r.Led.AddOutput("tracklist", path, 0); err != nil {
		return err
	}
	r.Log.Success("Tracklist written to %s", path)
	return nil
}

// resolveOffsets implements the three timestamp strategies. Detected falls
// back to the analytical plan when the candidate count disagrees with the
// track count; the detection threshold is never retuned.
func (r *Runner) resolveOffsets(ctx context.Context, tracks []ingest.Track, fades []float64, finalAudio string, lofiApplied bool) ([]float64, error) {
	cfg := r.Cfg

	analytical := func(durations []float64) []float64 {
		offsets := planner.AnalyticalOffsets(durations, fades)
		if lofiApplied {
			offsets = planner.ScaleForTempo(offsets, cfg.TempoFactor)
		}
		return offsets
	}

	switch cfg.Timestamps {
	case config.TimestampsMeasured:
		r.Log.Info("Measuring processed track durations...")
		measured := make([]float64, len(tracks))
		for i, t := range tracks {
			d, err := ffmpeg.MeasureProcessedDuration(ctx, r.Invoke, t.Path, cfg.TrimSilence)
			if err != nil {
				return nil, err
			}
			measured[i] = d
			r.Log.Debug(cfg.Verbose, "  %s: %.2fs measured (%.2fs nominal)", t.Name, d, t.DurationS)
		}
		return analytical(measured), nil

	case config.TimestampsDetected:
		r.Log.Info("Detecting track boundaries in rendered audio...")
		candidates, err := ffmpeg.DetectBoundaries(ctx, r.Invoke, finalAudio, cfg.DetectNoiseDB, cfg.DetectMinSilenceS)
		if err != nil {
			return nil, err
		}
		if offsets, ok := planner.ReconcileDetected(candidates, len(tracks)); ok {
			return offsets, nil
		}
		warn := fmt.Sprintf("detected %d boundary candidate(s) for %d track(s), falling back to analytical timestamps",
			len(candidates), len(tracks))
		r.Log.Warn("%s", warn)
		r.Led.AddWarning(warn)
		return analytical(planner.Durations(tracks)), nil

	default: // analytical
		return analytical(planner.Durations(tracks)), nil
	}
}

// transform records and executes one engine invocation, then verifies the
// expected output actually appeared.
func (r *Runner) transform(ctx context.Context, stage string, args []string, outPath string) error {
	r.Led.AddCommand(args)
	r.Log.Render("[%s] %s", stage, strings.Join(args, " "))

	if _, err := r.Invoke(ctx, ffmpeg.Request{Args: args, TeeStderr: r.Cfg.Verbose}); err != nil {
		return err
	}
	if _, err := os.Stat(outPath); err != nil {
		return status.Processingf("%s reported success but %s is missing", stage, outPath)
	}
	return nil
}

func (r *Runner) logPlanned(args []string) {
	r.Led.AddCommand(args)
	r.Log.Info("[dry-run] would run: %s", strings.Join(args, " "))
}

// programDuration is the analytical length of the merged program: track
// durations minus crossfade overlap.
func programDuration(durations, fades []float64) float64 {
	var total float64
	for _, d := range durations {
		total += d
	}
	for _, f := range fades {
		total -= f
	}
	return total
}

func elapsed(start time.Time) float64 {
	return time.Since(start).Seconds()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
