package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mdowning/batchkb/internal/classifier"
	"github.com/mdowning/batchkb/internal/task"
)

// phaseProcess runs spec.md §4.5 Phase B over every non-duplicate,
// non-error file. Concurrency is bounded by the Orchestrator's shared
// semaphore, not by a per-task limit, per spec.md §5.
func (o *Orchestrator) phaseProcess(ctx context.Context, t *task.Task, results []*task.FileResult) {
	// A plain errgroup.Group, not WithContext: every goroutine below
	// recovers its own errors into the FileResult and always returns
	// nil, so one file's failure must never cancel its siblings.
	var g errgroup.Group

	for i := range results {
		r := results[i]
		if r.Disposition != task.DispositionNone {
			continue
		}
		idx := i
		g.Go(func() error {
			o.sem <- struct{}{}
			defer func() { <-o.sem }()
			o.processFile(ctx, t, results[idx])
			return nil
		})
	}
	_ = g.Wait()
}

// processFile classifies, optionally transcodes, and optionally cleans
// one persisted original. It never returns an error: any failure is
// recorded on r and the file still reaches exactly one bucket.
func (o *Orchestrator) processFile(ctx context.Context, t *task.Task, r *task.FileResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.Disposition = task.DispositionError
			r.ErrorMessage = fmt.Sprintf("internal error: %v", rec)
		}
	}()

	base := filepath.Base(r.PathInfo.RelativePath)
	if o.cfg.SkipTempFiles && strings.HasPrefix(base, "~$") {
		r.Disposition = task.DispositionTempFile
		return
	}

	switch r.PathInfo.Ext {
	case ".doc":
		o.processLegacyDoc(ctx, t, r)
	case ".xls", ".ppt":
		o.processLegacyTabularOrSlides(ctx, t, r)
	case ".docx":
		o.processDocx(ctx, t, r)
	case ".xlsx", ".pptx":
		r.IsTextOnly = false
		r.ClassificationReason = fmt.Sprintf("%s is always treated as rich-media", r.PathInfo.Ext)
	case ".txt", ".md":
		o.processPlainText(ctx, t, r)
	case ".pdf":
		o.processPDF(ctx, t, r)
	default:
		// An extension with no classifier rule is rich-media by
		// default, not a failure, per spec.md §4.2/§7: the original is
		// preserved untouched and surfaces with a reason, same as any
		// other rich-media file.
		r.IsTextOnly = false
		r.ClassificationReason = "unsupported format"
	}

	r.ArchivePath = archivePathFor(r)
}

// convertedRelPath derives the converted/ directory's path for a file,
// relative to the task root: the original relative path with its
// extension swapped for targetExt.
func convertedRelPath(pi task.PathInfo, targetExt string) string {
	if pi.Dir == "" {
		return pi.Stem + targetExt
	}
	return pi.Dir + "/" + pi.Stem + targetExt
}

// moveConverted relocates a transcoder-produced temp file into the
// task's own converted/ directory, per spec.md §6's on-disk layout and
// §4.3's "caller is responsible for move/rename" contract. Leaving the
// artifact in the transcoder's shared temp dir would let an untracked,
// age-only cleaner sweep reclaim a file a completed task's download()
// still points to.
func (o *Orchestrator) moveConverted(t *task.Task, r *task.FileResult, tempPath, targetExt string) (string, error) {
	dest := filepath.Join(t.Dirs.Converted, filepath.FromSlash(convertedRelPath(r.PathInfo, targetExt)))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("create converted directory: %w", err)
	}
	if err := os.Rename(tempPath, dest); err != nil {
		return "", fmt.Errorf("move converted artifact: %w", err)
	}
	return dest, nil
}

// archivePathFor derives the archive-relative path for a processed
// file: the original relative path, extension swapped for the
// converted artifact's when one was produced.
func archivePathFor(r *task.FileResult) string {
	if r.ConvertedPath == "" {
		return r.PathInfo.RelativePath
	}
	targetExt := filepath.Ext(r.ConvertedPath)
	if r.PathInfo.Dir == "" {
		return r.PathInfo.Stem + targetExt
	}
	return r.PathInfo.Dir + "/" + r.PathInfo.Stem + targetExt
}

// processLegacyDoc transcodes a .doc to .docx first (required to even
// classify it) then cleans it if the result is text-only.
func (o *Orchestrator) processLegacyDoc(ctx context.Context, t *task.Task, r *task.FileResult) {
	tmp, err := o.transcode.Transcode(ctx, r.OriginalPath, ".docx")
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	out, err := o.moveConverted(t, r, tmp, ".docx")
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.ConvertedPath = out

	cls, err := classifier.Classify(out)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.IsTextOnly = cls.IsTextOnly
	r.ClassificationReason = cls.Reason

	if r.IsTextOnly {
		o.runTextPipeline(ctx, t, r, out)
	}
}

// processLegacyTabularOrSlides handles .xls/.ppt: always rich-media,
// always transcoded to their modern container so a usable artifact
// exists in the rich-media bucket.
func (o *Orchestrator) processLegacyTabularOrSlides(ctx context.Context, t *task.Task, r *task.FileResult) {
	targetExt := ".xlsx"
	reason := "Excel workbook"
	if r.PathInfo.Ext == ".ppt" {
		targetExt = ".pptx"
		reason = "PowerPoint presentation"
	}

	tmp, err := o.transcode.Transcode(ctx, r.OriginalPath, targetExt)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	out, err := o.moveConverted(t, r, tmp, targetExt)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.ConvertedPath = out
	r.IsTextOnly = false
	r.ClassificationReason = reason
}

func (o *Orchestrator) processDocx(ctx context.Context, t *task.Task, r *task.FileResult) {
	cls, err := classifier.Classify(r.OriginalPath)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.IsTextOnly = cls.IsTextOnly
	r.ClassificationReason = cls.Reason

	if r.IsTextOnly {
		o.runTextPipeline(ctx, t, r, r.OriginalPath)
		r.ConvertedPath = r.OriginalPath
	}
}

func (o *Orchestrator) processPlainText(ctx context.Context, t *task.Task, r *task.FileResult) {
	cls, err := classifier.Classify(r.OriginalPath)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.IsTextOnly = cls.IsTextOnly
	r.ClassificationReason = cls.Reason

	if !r.IsTextOnly {
		return
	}

	tmp, err := o.transcode.Transcode(ctx, r.OriginalPath, ".docx")
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	out, err := o.moveConverted(t, r, tmp, ".docx")
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.ConvertedPath = out
	o.runTextPipeline(ctx, t, r, out)
}

func (o *Orchestrator) processPDF(ctx context.Context, t *task.Task, r *task.FileResult) {
	cls, err := classifier.Classify(r.OriginalPath)
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.IsTextOnly = cls.IsTextOnly
	r.ClassificationReason = cls.Reason

	if !r.IsTextOnly {
		return
	}

	tmp, err := o.transcode.Transcode(ctx, r.OriginalPath, ".docx")
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	out, err := o.moveConverted(t, r, tmp, ".docx")
	if err != nil {
		r.Disposition = task.DispositionError
		r.ErrorMessage = err.Error()
		return
	}
	r.ConvertedPath = out
	o.runTextPipeline(ctx, t, r, out)
}
