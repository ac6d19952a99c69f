package orchestrator

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mdowning/batchkb/internal/cleaner"
	"github.com/mdowning/batchkb/internal/config"
	"github.com/mdowning/batchkb/internal/dedupstore"
	"github.com/mdowning/batchkb/internal/task"
	"github.com/mdowning/batchkb/internal/textpipeline"
	"github.com/mdowning/batchkb/internal/transcoder"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, config.Config) {
	t.Helper()
	root := t.TempDir()

	cfg := config.Config{
		MaxConcurrentTasks: 2,
		ConversionTimeout:  5 * time.Second,
		SkipTempFiles:      true,
		BatchDir:           filepath.Join(root, "batch"),
		TempDir:            filepath.Join(root, "temp"),
		MinParagraphLen:    0,
	}

	store := dedupstore.NewMemoryStore(discardLogger())
	pipeline, err := textpipeline.New(textpipeline.Config{
		MinParagraphLen:          cfg.MinParagraphLen,
		SimhashDistanceThreshold: 3,
		EnableNearDuplicate:      true,
	}, store, discardLogger())
	require.NoError(t, err)

	tc := transcoder.New([]transcoder.Engine{
		&transcoder.NativeTextToDocxEngine{},
		&transcoder.NativePDFToDocxEngine{},
	}, cfg.ConversionTimeout, cfg.TempDir, discardLogger())

	tasks := task.NewStore(time.Hour)
	cl := cleaner.New(cfg.BatchDir, cfg.TempDir, discardLogger())

	return New(cfg, store, pipeline, tc, tasks, cl, discardLogger()), cfg
}

func waitForCompletion(t *testing.T, o *Orchestrator, id string) task.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap, ok := o.Status(id)
		require.True(t, ok)
		if snap.Status != task.StatusProcessing {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("task did not complete in time")
	return task.Snapshot{}
}

func TestOrchestrator_PureTextMarkdownScenario(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	id, err := o.Submit(context.Background(), []InputFile{
		{RelativePath: "docs/a.md", Data: []byte("# Title\n\nParagraph one is ten-plus characters long.")},
	})
	require.NoError(t, err)

	snap := waitForCompletion(t, o, id)
	require.Equal(t, task.StatusCompleted, snap.Status)
	require.Equal(t, 1, snap.Counts[task.BucketPureTextConverted])
	require.Contains(t, snap.Downloads, task.BucketPureTextConverted)
	require.Len(t, snap.PureTextFiles, 1)
	require.Equal(t, "docs/a.docx", snap.PureTextFiles[0].ConvertedPath)
}

func TestOrchestrator_ExactDuplicateUploadWithinOneBatch(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	body := []byte("# Title\n\nParagraph one is ten-plus characters long.")
	id, err := o.Submit(context.Background(), []InputFile{
		{RelativePath: "docs/a.md", Data: body},
		{RelativePath: "docs/a-copy.md", Data: body},
	})
	require.NoError(t, err)

	snap := waitForCompletion(t, o, id)
	require.Equal(t, 1, snap.Counts[task.BucketPureTextConverted])
	require.Equal(t, 1, snap.Counts[task.BucketDuplicates])
}

func TestOrchestrator_LockFileSkippedAsTempFile(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	id, err := o.Submit(context.Background(), []InputFile{
		{RelativePath: "~$report.docx", Data: []byte("placeholder")},
	})
	require.NoError(t, err)

	snap := waitForCompletion(t, o, id)
	require.Equal(t, 1, snap.Counts[task.BucketTempFiles])
	require.Zero(t, snap.Counts[task.BucketPureTextConverted])
	require.Zero(t, snap.Counts[task.BucketRichMediaOriginal])
}

func TestOrchestrator_SpreadsheetIsRichMediaWithoutConversion(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	id, err := o.Submit(context.Background(), []InputFile{
		{RelativePath: "data.xlsx", Data: []byte("not a real workbook, classification never inspects it")},
	})
	require.NoError(t, err)

	snap := waitForCompletion(t, o, id)
	require.Equal(t, 1, snap.Counts[task.BucketRichMediaOriginal])
	require.Len(t, snap.RichMediaFiles, 1)
	require.Equal(t, ".xlsx is always treated as rich-media", snap.RichMediaFiles[0].Reason)
}

func TestOrchestrator_RepeatedParagraphAcrossDocuments(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	id, err := o.Submit(context.Background(), []InputFile{
		{RelativePath: "b.md", Data: []byte("Para X is long enough.\n\nPara Y is also long enough.")},
		{RelativePath: "c.md", Data: []byte("Para X is long enough.\n\nPara Z is long enough.")},
	})
	require.NoError(t, err)

	snap := waitForCompletion(t, o, id)
	require.Equal(t, 2, snap.Counts[task.BucketPureTextConverted])
}
