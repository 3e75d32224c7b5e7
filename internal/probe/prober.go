// Package probe wraps ffprobe's JSON inspection mode and turns raw files
// into typed audio metadata records.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Timeout bounds a single inspection call. Probing is cheap; a file that
// takes longer than this is effectively unreadable.
const Timeout = 10 * time.Second

// Info holds the metadata of one audio file.
type Info struct {
	DurationS  float64
	SampleRate int
	Channels   int
	Codec      string
	BitRate    int64 // 0 when unavailable.
}

// Probe runs a single ffprobe JSON call against path and returns the parsed
// audio metadata. One call replaces separate per-field ffprobe invocations.
func Probe(ctx context.Context, path string) (*Info, error) {
	ctx, cancel := context.WithTimeout(ctx, Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format", "-show_streams",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("ffprobe timed out for %q", path)
		}
		return nil, fmt.Errorf("ffprobe %q: %w", path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into an Info record.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (*Info, error) {
	var raw ffprobeOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse ffprobe JSON: %w", err)
	}
	return buildInfo(&raw)
}

// --- ffprobe JSON wire types ---

type ffprobeOutput struct {
	Format  ffprobeFormat   `json:"format"`
	Streams []ffprobeStream `json:"streams"`
}

type ffprobeFormat struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

type ffprobeStream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
	BitRate    string `json:"bit_rate"`
}

// --- Conversion from wire types to the domain record ---

func buildInfo(raw *ffprobeOutput) (*Info, error) {
	var audio *ffprobeStream
	for i := range raw.Streams {
		if raw.Streams[i].CodecType == "audio" {
			audio = &raw.Streams[i]
			break
		}
	}
	if audio == nil {
		return nil, fmt.Errorf("no audio stream found")
	}

	info := &Info{
		DurationS:  parseFloat(raw.Format.Duration),
		SampleRate: parseInt(audio.SampleRate),
		Channels:   audio.Channels,
		Codec:      audio.CodecName,
	}
	if info.Codec == "" {
		info.Codec = "unknown"
	}

	if info.DurationS <= 0 {
		return nil, fmt.Errorf("invalid duration")
	}
	if info.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate")
	}
	if info.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count")
	}

	// Bit rate is best-effort: stream value first, then container value.
	if br := parseInt64(audio.BitRate); br > 0 {
		info.BitRate = br
	} else {
		info.BitRate = parseInt64(raw.Format.BitRate)
	}

	return info, nil
}

// --- Numeric parsing helpers (ffprobe returns numbers as strings) ---

func parseInt64(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseInt(s string) int {
	s = strings.TrimSpace(s)
	n, _ := strconv.Atoi(s)
	return n
}
