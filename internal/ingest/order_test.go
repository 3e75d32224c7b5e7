package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/trackweave/internal/status"
)

func writeOrderFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), OrderFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseOrderFile(t *testing.T) {
	path := writeOrderFile(t, `
# opening section
a.mp3
b.mp3   trailing comment ignored

a.mp3
`)
	ordered, err := ParseOrderFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3", "b.mp3", "a.mp3"}, ordered)
}

func TestParseOrderFile_RejectsPaths(t *testing.T) {
	for _, entry := range []string{"../escape.mp3", `sub\track.mp3`, "dir/track.mp3"} {
		path := writeOrderFile(t, entry+"\n")
		_, err := ParseOrderFile(path)
		require.Error(t, err, entry)
		assert.Equal(t, status.KindValidation, status.KindOf(err))
		assert.Contains(t, err.Error(), "line 1")
	}
}

func TestValidateOrdering_ExactCoverage(t *testing.T) {
	available := map[string]bool{"a.mp3": true, "b.mp3": true}
	dups, err := ValidateOrdering([]string{"b.mp3", "a.mp3"}, available)
	require.NoError(t, err)
	assert.Empty(t, dups)
}

func TestValidateOrdering_DuplicatesAllowed(t *testing.T) {
	available := map[string]bool{"a.mp3": true, "b.mp3": true}
	dups, err := ValidateOrdering([]string{"a.mp3", "b.mp3", "a.mp3"}, available)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.mp3"}, dups)
}

func TestValidateOrdering_ReportsMissingAndExtraneous(t *testing.T) {
	available := map[string]bool{"a.mp3": true, "b.mp3": true}
	_, err := ValidateOrdering([]string{"a.mp3", "c.mp3"}, available)
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.KindOf(err))
	assert.Contains(t, err.Error(), "b.mp3")
	assert.Contains(t, err.Error(), "c.mp3")
}
