package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/trackweave/internal/status"
)

// Request describes one blocking engine invocation.
type Request struct {
	Args          []string      // Args[0] is the binary.
	Timeout       time.Duration // 0 = unbounded (long transforms).
	CaptureStdout bool          // Collect stdout (raw PCM measurement).
	TeeStderr     bool          // Mirror stderr to the terminal (verbose).
}

// Result holds the outcome of one engine invocation.
type Result struct {
	Stdout []byte
	Stderr string
}

// RunFunc is the executor seam: packages that drive the engine accept one of
// these so tests can substitute a fake. Run is the real implementation.
type RunFunc func(ctx context.Context, req Request) (*Result, error)

// Run executes one engine invocation and blocks until it finishes. Stderr is
// always captured for diagnostics; a non-zero exit, timeout, missing binary,
// or interrupt all classify as processing failures.
func Run(ctx context.Context, req Request) (*Result, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, req.Args[0], req.Args[1:]...)

	var stderrBuf bytes.Buffer
	if req.TeeStderr {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	var stdoutBuf bytes.Buffer
	if req.CaptureStdout {
		cmd.Stdout = &stdoutBuf
	}

	err := cmd.Run()
	res := &Result{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.String()}
	if err == nil {
		return res, nil
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return res, status.Processingf("%s timed out after %s", req.Args[0], req.Timeout)
	case errors.Is(ctx.Err(), context.Canceled):
		return res, status.Processingf("%s interrupted", req.Args[0])
	case errors.Is(err, exec.ErrNotFound):
		return res, status.Processingf("%s not found on PATH", req.Args[0])
	default:
		return res, status.WrapProcessing(err, "%s failed: %s", req.Args[0], StderrTail(res.Stderr, 5))
	}
}

// StderrTail returns the last n non-empty stderr lines joined for a compact
// diagnostic message.
func StderrTail(stderr string, n int) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	var kept []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			kept = append(kept, strings.TrimSpace(l))
		}
	}
	if len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, " | ")
}
