// Package check verifies the run environment before any processing starts:
// engine binaries present and recent enough, input readable, output writable,
// and a rough disk space estimate.
package check

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/backmassage/trackweave/internal/config"
	"github.com/backmassage/trackweave/internal/display"
	"github.com/backmassage/trackweave/internal/ffmpeg"
	"github.com/backmassage/trackweave/internal/status"
)

// Minimum engine release. Older builds lack filter options the graphs rely
// on (asubboost, loudnorm linear mode fixes).
const (
	minMajor = 4
	minMinor = 4
)

const versionTimeout = 10 * time.Second

var reVersion = regexp.MustCompile(`version\s+n?(\d+)\.(\d+)`)

// Logger is the subset of the pipeline logger preflight reporting needs.
type Logger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// Tool describes one verified engine binary.
type Tool struct {
	Name    string
	Version string // first line of -version output
}

// VerifyTool confirms that the named binary runs and is at least the minimum
// supported release. A missing or outdated binary is a validation failure.
func VerifyTool(ctx context.Context, run ffmpeg.RunFunc, name string) (Tool, error) {
	res, err := run(ctx, ffmpeg.Request{
		Args:          []string{name, "-version"},
		Timeout:       versionTimeout,
		CaptureStdout: true,
	})
	if err != nil {
		return Tool{}, status.Validationf("%s is not available: install ffmpeg %d.%d or newer", name, minMajor, minMinor)
	}

	firstLine := strings.SplitN(strings.TrimSpace(string(res.Stdout)), "\n", 2)[0]
	major, minor, ok := parseVersion(firstLine)
	if !ok {
		// Custom builds report opaque versions; let them through.
		return Tool{Name: name, Version: firstLine}, nil
	}
	if major < minMajor || (major == minMajor && minor < minMinor) {
		return Tool{}, status.Validationf("%s %d.%d is too old: version %d.%d or newer required",
			name, major, minor, minMajor, minMinor)
	}
	return Tool{Name: name, Version: firstLine}, nil
}

// parseVersion extracts major.minor from a -version banner line.
func parseVersion(line string) (major, minor int, ok bool) {
	m := reVersion.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, false
	}
	major, _ = strconv.Atoi(m[1])
	minor, _ = strconv.Atoi(m[2])
	return major, minor, true
}

// VerifyEngine verifies both engine binaries and returns the ffmpeg version
// banner for the run manifest.
func VerifyEngine(ctx context.Context, run ffmpeg.RunFunc) (string, error) {
	ff, err := VerifyTool(ctx, run, "ffmpeg")
	if err != nil {
		return "", err
	}
	if _, err := VerifyTool(ctx, run, "ffprobe"); err != nil {
		return "", err
	}
	return ff.Version, nil
}

// VerifyPaths confirms the input directory is readable and the output
// directory exists or can be created and written to.
func VerifyPaths(inputDir, outputDir string) error {
	info, err := os.Stat(inputDir)
	if err != nil {
		return status.Validationf("input directory %s is not accessible: %v", inputDir, err)
	}
	if !info.IsDir() {
		return status.Validationf("input path %s is not a directory", inputDir)
	}
	if _, err := os.ReadDir(inputDir); err != nil {
		return status.Validationf("input directory %s is not readable: %v", inputDir, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return status.Validationf("cannot create output directory %s: %v", outputDir, err)
	}
	probe := filepath.Join(outputDir, ".write_check")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return status.Validationf("output directory %s is not writable: %v", outputDir, err)
	}
	os.Remove(probe)
	return nil
}

// InputBytes sums the sizes of regular files at the top level of dir.
func InputBytes(dir string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}

// EstimateWorkingBytes is a rough working set estimate: decoded PCM
// intermediates plus final artifacts run about three times the input size.
func EstimateWorkingBytes(inputBytes int64) int64 {
	return inputBytes * 3
}

// FreeBytes reports the space available to unprivileged writes on the
// volume holding dir.
func FreeBytes(dir string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return 0, err
	}
	return int64(st.Bavail) * int64(st.Bsize), nil
}

// SpaceWarning compares the estimated working set against the free space on
// the output volume. It returns "" when space looks sufficient or when
// either quantity cannot be determined; the check is advisory and never
// blocks a run.
func SpaceWarning(inputDir, outputDir string) string {
	in, err := InputBytes(inputDir)
	if err != nil {
		return ""
	}
	free, err := FreeBytes(outputDir)
	if err != nil {
		return ""
	}
	return compareSpace(EstimateWorkingBytes(in), free)
}

func compareSpace(need, free int64) string {
	if free >= need {
		return ""
	}
	return fmt.Sprintf("estimated working space %s exceeds free space %s on the output volume",
		display.FormatBytes(need), display.FormatBytes(free))
}

// RunCheck verifies the environment and reports findings. Engine or path
// problems fail the check; the space estimate is informational only.
func RunCheck(ctx context.Context, run ffmpeg.RunFunc, cfg *config.Config, log Logger) error {
	version, err := VerifyEngine(ctx, run)
	if err != nil {
		return err
	}
	log.Info("engine: %s", version)

	if err := VerifyPaths(cfg.InputDir, cfg.OutputDir); err != nil {
		return err
	}
	log.Info("input directory readable: %s", cfg.InputDir)
	log.Info("output directory writable: %s", cfg.OutputDir)

	in, err := InputBytes(cfg.InputDir)
	if err != nil {
		log.Warn("cannot estimate input size: %v", err)
		return nil
	}
	need := EstimateWorkingBytes(in)
	log.Info("input size %s, expect roughly %s of working space",
		display.FormatBytes(in), display.FormatBytes(need))

	free, err := FreeBytes(cfg.OutputDir)
	if err != nil {
		log.Warn("cannot query free space on %s: %v", cfg.OutputDir, err)
		return nil
	}
	log.Info("free space on output volume: %s", display.FormatBytes(free))
	if w := compareSpace(need, free); w != "" {
		log.Warn("%s", w)
	}
	return nil
}
