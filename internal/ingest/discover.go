package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/trackweave/internal/status"
)

// Supported audio file extensions (lowercase, with leading dot).
var audioExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".mpeg": true,
}

// Discover scans the top level of inputDir for audio files and returns their
// paths. Subdirectories are ignored so assets and previous outputs never leak
// into the program.
func Discover(inputDir string) ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, status.WrapValidation(err, "reading input directory %s", inputDir)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if audioExtensions[ext] {
			files = append(files, filepath.Join(inputDir, e.Name()))
		}
	}

	if len(files) == 0 {
		return nil, status.Validationf("no audio files found in %s (supported: %s)",
			inputDir, strings.Join(supportedExtensions(), ", "))
	}
	sort.Strings(files)
	return files, nil
}

func supportedExtensions() []string {
	exts := make([]string, 0, len(audioExtensions))
	for ext := range audioExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
