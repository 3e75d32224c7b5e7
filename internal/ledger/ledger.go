// Package ledger records everything a pipeline run did: what went in, what
// came out, every engine command issued, and how each stage ended. The record
// is written as an indented JSON manifest next to the outputs so a run can be
// audited or reproduced later.
package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/trackweave/internal/status"
)

// SchemaVersion identifies the manifest layout. Bump on breaking changes.
const SchemaVersion = 1

// InputTrack is one source clip as probed during ingest.
type InputTrack struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	DurationS  float64 `json:"duration_s"`
	SampleRate int     `json:"sample_rate"`
	Channels   int     `json:"channels"`
	Codec      string  `json:"codec"`
	BitRate    int64   `json:"bit_rate,omitempty"`
}

// Inputs groups everything the run consumed.
type Inputs struct {
	Tracks      []InputTrack `json:"tracks"`
	OrderSource string       `json:"order_source"`
	CoverImage  string       `json:"cover_image,omitempty"`
	Texture     string       `json:"texture,omitempty"`
	Drums       string       `json:"drums,omitempty"`
}

// Output is one produced artifact, fingerprinted at append time.
type Output struct {
	Name      string  `json:"name"`
	Path      string  `json:"path"`
	SizeBytes int64   `json:"size_bytes"`
	SHA256    string  `json:"sha256"`
	DurationS float64 `json:"duration_s,omitempty"`
}

// Stage is one pipeline stage's outcome.
type Stage struct {
	Name              string  `json:"name"`
	Status            string  `json:"status"` // success, skipped, failed
	ElapsedS          float64 `json:"elapsed_s"`
	TracksFound       int     `json:"tracks_found,omitempty"`
	CrossfadesApplied int     `json:"crossfades_applied,omitempty"`
	Note              string  `json:"note,omitempty"`
}

// Manifest is the full run record.
type Manifest struct {
	SchemaVersion int            `json:"schema_version"`
	RunID         string         `json:"run_id"`
	StartedAt     time.Time      `json:"started_at"`
	FinishedAt    time.Time      `json:"finished_at"`
	ToolVersion   string         `json:"tool_version"`
	FfmpegVersion string         `json:"ffmpeg_version"`
	Platform      string         `json:"platform"`
	Inputs        Inputs         `json:"inputs"`
	Parameters    map[string]any `json:"parameters"`
	Outputs       []Output       `json:"outputs"`
	Stages        []Stage        `json:"stages"`
	Commands      [][]string     `json:"commands"`
	Warnings      []string       `json:"warnings"`
	Errors        []string       `json:"errors"`
}

// New starts a manifest for a fresh run with a unique run id.
func New(toolVersion, ffmpegVersion string) *Manifest {
	return &Manifest{
		SchemaVersion: SchemaVersion,
		RunID:         uuid.NewString(),
		StartedAt:     time.Now().UTC(),
		ToolVersion:   toolVersion,
		FfmpegVersion: ffmpegVersion,
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		Parameters:    map[string]any{},
		Outputs:       []Output{},
		Stages:        []Stage{},
		Commands:      [][]string{},
		Warnings:      []string{},
		Errors:        []string{},
	}
}

// AddStage appends one stage outcome.
func (m *Manifest) AddStage(s Stage) {
	m.Stages = append(m.Stages, s)
}

// AddCommand records an engine invocation verbatim.
func (m *Manifest) AddCommand(args []string) {
	m.Commands = append(m.Commands, args)
}

// AddWarning records a non-fatal condition.
func (m *Manifest) AddWarning(msg string) {
	m.Warnings = append(m.Warnings, msg)
}

// AddError records a fatal condition. The manifest is still written on
// failure so partial runs stay auditable.
func (m *Manifest) AddError(msg string) {
	m.Errors = append(m.Errors, msg)
}

// AddOutput fingerprints the artifact at path and appends it. durationS of
// zero is omitted from the manifest (image and manifest artifacts have no
// duration).
func (m *Manifest) AddOutput(name, path string, durationS float64) error {
	size, sum, err := fingerprint(path)
	if err != nil {
		return status.WrapOutput(err, "cannot fingerprint output %s", path)
	}
	m.Outputs = append(m.Outputs, Output{
		Name:      name,
		Path:      path,
		SizeBytes: size,
		SHA256:    sum,
		DurationS: durationS,
	})
	return nil
}

// Write finalizes the manifest and writes it as indented JSON.
func (m *Manifest) Write(path string) error {
	m.FinishedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return status.WrapOutput(err, "cannot encode manifest")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return status.WrapOutput(err, "cannot write manifest %s", path)
	}
	return nil
}

// fingerprint streams the file through sha256 and reports its size.
func fingerprint(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(h.Sum(nil)), nil
}
