package task

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewID_MatchesExpectedShape(t *testing.T) {
	id, err := NewID(time.Date(2026, 7, 30, 9, 41, 2, 0, time.UTC))
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^batch_20260730_094102_[0-9a-f]{6}$`), id)
}

func TestNewID_UniqueAcrossCalls(t *testing.T) {
	now := time.Now()
	a, err := NewID(now)
	require.NoError(t, err)
	b, err := NewID(now)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestTask_SnapshotReflectsBucketsAndDownloads(t *testing.T) {
	tk := New("batch_20260730_094102_abc123", Dirs{Root: "/tmp/batch_x"})
	tk.SetResults([]*FileResult{
		{Index: 0, PathInfo: PathInfo{RelativePath: "docs/a.md"}, ArchivePath: "docs/a.docx"},
		{Index: 1, PathInfo: PathInfo{RelativePath: "docs/b.xlsx"}, ClassificationReason: "Excel workbook (1 sheet)"},
	})
	tk.AssignBucket(BucketPureTextConverted, 0)
	tk.AssignBucket(BucketAll, 0)
	tk.AssignBucket(BucketRichMediaOriginal, 1)
	tk.AssignBucket(BucketAll, 1)
	tk.SetArchivePath(BucketAll, "/tmp/batch_x/downloads/all_batch_x.zip")
	tk.Finish(StatusCompleted)

	snap := tk.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status)
	require.Equal(t, 2, snap.Total)
	require.Equal(t, 1, snap.Counts[BucketPureTextConverted])
	require.Equal(t, 2, snap.Counts[BucketAll])
	require.Len(t, snap.PureTextFiles, 1)
	require.Equal(t, "docs/a.docx", snap.PureTextFiles[0].ConvertedPath)
	require.Len(t, snap.RichMediaFiles, 1)
	require.Equal(t, "Excel workbook (1 sheet)", snap.RichMediaFiles[0].Reason)
	require.Contains(t, snap.Downloads, BucketAll)
}

func TestStore_CleanupEvictsExpiredTasks(t *testing.T) {
	s := NewStore(1 * time.Millisecond)
	tk := New("batch_old", Dirs{Root: "/tmp/batch_old"})
	tk.UpdatedAt = time.Now().Add(-time.Hour)
	s.Put(tk)

	time.Sleep(2 * time.Millisecond)
	removed := s.Cleanup()
	require.Equal(t, 1, removed)
	require.Nil(t, s.Get("batch_old"))
}

func TestStore_GetReturnsRegisteredTask(t *testing.T) {
	s := NewStore(time.Hour)
	tk := New("batch_fresh", Dirs{Root: "/tmp/batch_fresh"})
	s.Put(tk)
	require.Same(t, tk, s.Get("batch_fresh"))
}
