package dedupstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemoryStore_DocSeenRoundTrip(t *testing.T) {
	s := NewMemoryStore(discardLogger())
	ctx := context.Background()

	require.False(t, s.IsDocSeen(ctx, "hash-a"))
	s.MarkDoc(ctx, "hash-a")
	require.True(t, s.IsDocSeen(ctx, "hash-a"))
	require.False(t, s.IsDocSeen(ctx, "hash-b"))
}

func TestMemoryStore_ParaSeenRoundTripAndSimhash(t *testing.T) {
	s := NewMemoryStore(discardLogger())
	ctx := context.Background()

	require.False(t, s.IsParaSeen(ctx, "para-a"))
	s.MarkPara(ctx, "para-a", 0xABCD)
	require.True(t, s.IsParaSeen(ctx, "para-a"))

	hashes := s.AllParaSimhashes(ctx)
	require.Equal(t, uint64(0xABCD), hashes["para-a"])
}

func TestMemoryStore_StatsReflectsAllThreeSets(t *testing.T) {
	s := NewMemoryStore(discardLogger())
	ctx := context.Background()

	s.MarkDoc(ctx, "doc-1")
	s.MarkDoc(ctx, "doc-2")
	s.MarkPara(ctx, "para-1", 1)

	stats := s.Stats(ctx)
	require.Equal(t, 2, stats.DocCount)
	require.Equal(t, 1, stats.ParaCount)
	require.Equal(t, 1, stats.SimhashCount)
}

func TestMemoryStore_ClearAllWipesEverySet(t *testing.T) {
	s := NewMemoryStore(discardLogger())
	ctx := context.Background()

	s.MarkDoc(ctx, "doc-1")
	s.MarkPara(ctx, "para-1", 1)
	s.ClearAll(ctx)

	stats := s.Stats(ctx)
	require.Zero(t, stats.DocCount)
	require.Zero(t, stats.ParaCount)
	require.Zero(t, stats.SimhashCount)
}

func TestSHA256Hex_IsDeterministicAndSensitiveToInput(t *testing.T) {
	a := SHA256Hex([]byte("hello"))
	b := SHA256Hex([]byte("hello"))
	c := SHA256Hex([]byte("world"))

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 64)
}

func TestFileSHA256Hex_MatchesSHA256HexOfSameBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	content := []byte("some file content for hashing")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	got, err := FileSHA256Hex(path)
	require.NoError(t, err)
	require.Equal(t, SHA256Hex(content), got)
}

func TestFileSHA256Hex_ErrorsOnMissingFile(t *testing.T) {
	_, err := FileSHA256Hex(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
