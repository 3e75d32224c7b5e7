package check

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/trackweave/internal/ffmpeg"
	"github.com/backmassage/trackweave/internal/status"
)

func fakeVersion(banner string) ffmpeg.RunFunc {
	return func(ctx context.Context, req ffmpeg.Request) (*ffmpeg.Result, error) {
		return &ffmpeg.Result{Stdout: []byte(banner)}, nil
	}
}

func TestParseVersion(t *testing.T) {
	tests := []struct {
		line      string
		major     int
		minor     int
		parseable bool
	}{
		{"ffmpeg version 6.1.1 Copyright (c) 2000-2023", 6, 1, true},
		{"ffmpeg version 4.4.2-0ubuntu0.22.04.1", 4, 4, true},
		{"ffmpeg version n5.0 built with gcc", 5, 0, true},
		{"ffmpeg version git-2023-custom", 0, 0, false},
	}
	for _, tt := range tests {
		major, minor, ok := parseVersion(tt.line)
		assert.Equal(t, tt.parseable, ok, tt.line)
		if tt.parseable {
			assert.Equal(t, tt.major, major, tt.line)
			assert.Equal(t, tt.minor, minor, tt.line)
		}
	}
}

func TestVerifyToolAcceptsSupported(t *testing.T) {
	tool, err := VerifyTool(context.Background(), fakeVersion("ffmpeg version 6.1.1 Copyright\nbuilt with gcc"), "ffmpeg")
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg", tool.Name)
	assert.Equal(t, "ffmpeg version 6.1.1 Copyright", tool.Version)
}

func TestVerifyToolRejectsOld(t *testing.T) {
	_, err := VerifyTool(context.Background(), fakeVersion("ffmpeg version 4.2.7"), "ffmpeg")
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.KindOf(err))
	assert.Contains(t, err.Error(), "too old")
}

func TestVerifyToolMissingBinary(t *testing.T) {
	fail := func(ctx context.Context, req ffmpeg.Request) (*ffmpeg.Result, error) {
		return nil, status.Processingf("ffmpeg not found on PATH")
	}
	_, err := VerifyTool(context.Background(), fail, "ffmpeg")
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.KindOf(err))
}

func TestVerifyToolOpaqueVersionPasses(t *testing.T) {
	tool, err := VerifyTool(context.Background(), fakeVersion("ffmpeg version git-2023-custom"), "ffmpeg")
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg version git-2023-custom", tool.Version)
}

func TestVerifyPaths(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "nested", "out")

	require.NoError(t, VerifyPaths(input, output))

	// Output directory was created by the check.
	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestVerifyPathsMissingInput(t *testing.T) {
	err := VerifyPaths(filepath.Join(t.TempDir(), "absent"), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.KindOf(err))
}

func TestVerifyPathsInputNotDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.mp3")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	err := VerifyPaths(file, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestInputBytes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), make([]byte, 100), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp3"), make([]byte, 250), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	total, err := InputBytes(dir)
	require.NoError(t, err)
	assert.Equal(t, int64(350), total)
	assert.Equal(t, int64(1050), EstimateWorkingBytes(total))
}

func TestFreeBytes(t *testing.T) {
	free, err := FreeBytes(t.TempDir())
	require.NoError(t, err)
	assert.Greater(t, free, int64(0))

	_, err = FreeBytes(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestCompareSpace(t *testing.T) {
	assert.Empty(t, compareSpace(100, 100))
	assert.Empty(t, compareSpace(100, 200))

	w := compareSpace(3*1024*1024*1024, 512*1024*1024)
	assert.Contains(t, w, "3.0 GiB")
	assert.Contains(t, w, "exceeds free space")
	assert.Contains(t, w, "512.0 MiB")
}

func TestSpaceWarningTinyInput(t *testing.T) {
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.mp3"), make([]byte, 64), 0o644))

	// 192 bytes of working space fit on any volume the tests run on.
	assert.Empty(t, SpaceWarning(in, t.TempDir()))
}
