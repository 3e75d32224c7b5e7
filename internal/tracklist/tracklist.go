// Package tracklist renders human-readable track listings with timestamps,
// in the format video descriptions expect.
package tracklist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/trackweave/internal/planner"
	"github.com/backmassage/trackweave/internal/status"
)

// CleanName turns a filename into a display title: every extension layer is
// stripped ("song.final.mp3" becomes "song"), underscores become spaces, and
// surrounding whitespace is trimmed.
func CleanName(filename string) string {
	name := filepath.Base(filename)
	for {
		ext := filepath.Ext(name)
		if ext == "" || ext == name {
			break
		}
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}

// FormatTimestamp renders an offset in seconds as M:SS, or H:MM:SS once the
// offset reaches an hour. Fractional seconds truncate.
func FormatTimestamp(offsetS float64) string {
	total := int(offsetS)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Render formats the timestamped listing body.
func Render(marks []planner.Mark) string {
	var b strings.Builder
	b.WriteString("Tracklist:\n")
	for _, mk := range marks {
		b.WriteString(FormatTimestamp(mk.OffsetS))
		b.WriteByte(' ')
		b.WriteString(CleanName(mk.Name))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile renders the listing to path.
func WriteFile(path string, marks []planner.Mark) error {
	if err := os.WriteFile(path, []byte(Render(marks)), 0o644); err != nil {
		return status.WrapOutput(err, "cannot write tracklist %s", path)
	}
	return nil
}
