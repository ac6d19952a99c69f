package orchestrator

import (
	"context"
	"os"
	"strings"

	"github.com/mdowning/batchkb/internal/dedupstore"
	"github.com/mdowning/batchkb/internal/docxutil"
	"github.com/mdowning/batchkb/internal/task"
	"github.com/mdowning/batchkb/internal/textpipeline"
)

// runTextPipeline extracts docxPath's plain text, runs it through the
// cleaning/dedup pipeline, and rewrites docxPath with the surviving
// paragraphs. It folds the resulting statistics into both the file
// result and the task's running dedup aggregate.
func (o *Orchestrator) runTextPipeline(ctx context.Context, t *task.Task, r *task.FileResult, docxPath string) {
	text, err := docxutil.ExtractText(docxPath)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}

	res := o.pipeline.Clean(ctx, text)
	r.Stats = toTaskStats(res.Stats)
	r.DocDuplicate = res.DocDuplicate
	r.ContentHash = dedupstore.SHA256Hex([]byte(res.CleanedText))

	t.AddDedupStats(task.DedupStats{
		DocDuplicates:     boolToInt(res.DocDuplicate),
		ParaExactDupTotal: res.Stats.ParagraphsExactDup,
		ParaNearDupTotal:  res.Stats.ParagraphsNearDup,
		NoiseRemovedTotal: res.Stats.NoiseRemovedCount,
	})

	// A doc-level duplicate (or a document with no paragraphs left after
	// dedup) still gets its artifact written per spec.md §4.4/§7: the
	// disposition stays none either way, only doc_duplicate is flagged.
	var paragraphs []string
	if res.CleanedText != "" {
		paragraphs = strings.Split(res.CleanedText, "\n\n")
	}
	out, err := os.Create(docxPath)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	defer out.Close()

	if err := docxutil.WriteParagraphs(out, paragraphs); err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
	}
}

func toTaskStats(s textpipeline.Stats) *task.PipelineStats {
	return &task.PipelineStats{
		OriginalLength:       s.OriginalLength,
		NormalizedLength:     s.NormalizedLength,
		NoiseRemovedCount:    s.NoiseRemovedCount,
		ParagraphsOriginal:   s.ParagraphsOriginal,
		ParagraphsExactDup:   s.ParagraphsExactDup,
		ParagraphsNearDup:    s.ParagraphsNearDup,
		ParagraphsTooShort:   s.ParagraphsTooShort,
		ParagraphsAfterDedup: s.ParagraphsAfterDedup,
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
