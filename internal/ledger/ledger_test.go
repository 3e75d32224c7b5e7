package ledger

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManifest(t *testing.T) {
	m := New("1.0.0", "ffmpeg version 6.1")

	assert.Equal(t, SchemaVersion, m.SchemaVersion)
	assert.Equal(t, "1.0.0", m.ToolVersion)
	assert.Equal(t, "ffmpeg version 6.1", m.FfmpegVersion)
	assert.NotEmpty(t, m.Platform)
	assert.False(t, m.StartedAt.IsZero())
	assert.Equal(t, "UTC", m.StartedAt.Location().String())

	_, err := uuid.Parse(m.RunID)
	assert.NoError(t, err)
}

func TestRunIDsAreUnique(t *testing.T) {
	assert.NotEqual(t, New("1", "f").RunID, New("1", "f").RunID)
}

func TestAddOutputFingerprints(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "merged.wav")
	content := []byte("not really pcm but good enough")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m := New("1.0.0", "6.1")
	require.NoError(t, m.AddOutput("merged", path, 42.5))

	require.Len(t, m.Outputs, 1)
	out := m.Outputs[0]
	assert.Equal(t, "merged", out.Name)
	assert.Equal(t, int64(len(content)), out.SizeBytes)
	assert.Equal(t, 42.5, out.DurationS)

	want := sha256.Sum256(content)
	assert.Equal(t, hex.EncodeToString(want[:]), out.SHA256)
}

func TestAddOutputMissingFile(t *testing.T) {
	m := New("1.0.0", "6.1")
	err := m.AddOutput("merged", filepath.Join(t.TempDir(), "absent.wav"), 0)
	require.Error(t, err)
	assert.Empty(t, m.Outputs)
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.json")

	m := New("1.0.0", "6.1")
	m.Inputs = Inputs{
		Tracks:      []InputTrack{{Name: "a.mp3", Path: "/in/a.mp3", DurationS: 180, SampleRate: 44100, Channels: 2, Codec: "mp3"}},
		OrderSource: "natural_sort",
	}
	m.Parameters["fade_seconds"] = 15.0
	m.AddStage(Stage{Name: "ingest", Status: "success", ElapsedS: 0.4, TracksFound: 1})
	m.AddStage(Stage{Name: "lofi", Status: "skipped", Note: "disabled by flag"})
	m.AddCommand([]string{"ffmpeg", "-i", "/in/a.mp3"})
	m.AddWarning("drum bed not found")

	require.NoError(t, m.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, m.RunID, got.RunID)
	assert.False(t, got.FinishedAt.IsZero())
	require.Len(t, got.Stages, 2)
	assert.Equal(t, "skipped", got.Stages[1].Status)
	assert.Equal(t, [][]string{{"ffmpeg", "-i", "/in/a.mp3"}}, got.Commands)
	assert.Equal(t, []string{"drum bed not found"}, got.Warnings)
	assert.Empty(t, got.Errors)

	// Indented output, not a single line.
	assert.Greater(t, bytes.Count(data, []byte("\n")), 10)
}
