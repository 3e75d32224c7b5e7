// Package ingest implements the first pipeline stage: discovering audio
// files, resolving their playback order, and probing each into a typed Track.
package ingest

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/backmassage/trackweave/internal/config"
	"github.com/backmassage/trackweave/internal/probe"
	"github.com/backmassage/trackweave/internal/status"
)

// ProbeFunc inspects one file. Injected so the stage is testable without an
// ffprobe binary.
type ProbeFunc func(ctx context.Context, path string) (*probe.Info, error)

// Stage discovers, orders, optionally subselects, and probes the input
// directory. A file that fails probing is dropped with a warning; zero
// surviving tracks escalates to a validation error.
func Stage(ctx context.Context, cfg *config.Config, log Logger, probeFn ProbeFunc) (*Result, error) {
	if probeFn == nil {
		probeFn = probe.Probe
	}

	log.Info("=== Stage 1: Ingest ===")
	log.Info("Scanning %s for audio files...", cfg.InputDir)

	files, err := Discover(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	log.Info("Found %d audio file(s)", len(files))

	res := &Result{}
	ordered, err := resolveOrder(cfg.InputDir, files, log, res)
	if err != nil {
		return nil, err
	}

	// Bounded random subselection, after ordering so order.txt and natural
	// sort both feed the same pool.
	if cfg.NumTracks > 0 && cfg.NumTracks < len(ordered) {
		log.Info("Randomly selecting %d track(s) from %d available", cfg.NumTracks, len(ordered))
		ordered = sampleWithoutReplacement(ordered, cfg.NumTracks)
	}

	byName := make(map[string]string, len(files))
	for _, path := range files {
		byName[filepath.Base(path)] = path
	}

	bar := probeBar(len(ordered), cfg.Verbose)
	probed := make(map[string]*probe.Info, len(ordered))
	for _, name := range ordered {
		path := byName[name]
		info, ok := probed[name]
		if !ok {
			var err error
			info, err = probeFn(ctx, path)
			if err != nil {
				warn := "skipping unreadable file " + name + ": " + err.Error()
				log.Warn("%s", warn)
				res.Warnings = append(res.Warnings, warn)
				probed[name] = nil
				barAdd(bar)
				continue
			}
			probed[name] = info
		}
		barAdd(bar)
		if info == nil {
			continue // Duplicate of an already-dropped file.
		}

		res.Tracks = append(res.Tracks, Track{
			Path:       path,
			Name:       name,
			DurationS:  info.DurationS,
			SampleRate: info.SampleRate,
			Channels:   info.Channels,
			Codec:      info.Codec,
			BitRate:    info.BitRate,
		})
		log.Debug(cfg.Verbose, "  [%d] %s: %.1fs, %dHz, %dch, %s",
			len(res.Tracks), name, info.DurationS, info.SampleRate, info.Channels, info.Codec)
	}
	barFinish(bar)

	if len(res.Tracks) == 0 {
		return nil, status.Validationf("no valid audio tracks found after filtering")
	}

	log.Info("Ingest complete: %d track(s), total %.1fs", len(res.Tracks), res.TotalDuration())
	return res, nil
}

// resolveOrder applies order.txt when present, otherwise natural sort.
func resolveOrder(inputDir string, files []string, log Logger, res *Result) ([]string, error) {
	names := make([]string, len(files))
	available := make(map[string]bool, len(files))
	for i, path := range files {
		names[i] = filepath.Base(path)
		available[names[i]] = true
	}

	orderPath := filepath.Join(inputDir, OrderFileName)
	if _, err := os.Stat(orderPath); err == nil {
		log.Info("Using %s for track ordering", OrderFileName)
		ordered, err := ParseOrderFile(orderPath)
		if err != nil {
			return nil, err
		}
		duplicates, err := ValidateOrdering(ordered, available)
		if err != nil {
			return nil, err
		}
		for _, dup := range duplicates {
			warn := OrderFileName + " repeats " + dup + " (it will play more than once)"
			log.Warn("%s", warn)
			res.Warnings = append(res.Warnings, warn)
		}
		res.OrderSource = OrderFileName
		return ordered, nil
	}

	log.Info("No %s found, using natural sort by filename", OrderFileName)
	NaturalSort(names)
	res.OrderSource = "natural_sort"
	return names, nil
}

// sampleWithoutReplacement draws n distinct elements uniformly. The result
// order carries no guarantee; reproducibility is not required.
func sampleWithoutReplacement(items []string, n int) []string {
	picked := make([]string, 0, n)
	for _, idx := range rand.Perm(len(items))[:n] {
		picked = append(picked, items[idx])
	}
	return picked
}

// --- Probe progress bar (suppressed in verbose mode where per-track lines
// are logged instead) ---

func probeBar(n int, verbose bool) *progressbar.ProgressBar {
	if verbose || n < 2 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription("Probing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
}

func barAdd(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Add(1)
	}
}

func barFinish(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}
