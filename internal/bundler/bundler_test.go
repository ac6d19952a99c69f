package bundler

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild_WritesNormalizedEntries(t *testing.T) {
	dir := t.TempDir()
	srcA := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(srcA, []byte("hello"), 0o644))

	out := filepath.Join(dir, "downloads", "all_batch_x.zip")
	err := Build([]Entry{
		{SourcePath: srcA, ArchivePath: "/docs\\a.txt"},
	}, out, nil)
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 1)
	require.Equal(t, "docs/a.txt", zr.File[0].Name)
}

func TestBuild_SkipsMissingSourceWithoutFailing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "downloads", "failed_batch_x.zip")
	err := Build([]Entry{
		{SourcePath: filepath.Join(dir, "missing.txt"), ArchivePath: "missing.txt"},
	}, out, nil)
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 0)
}
