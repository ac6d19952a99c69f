package orchestrator

import (
	"fmt"
	"path/filepath"

	"github.com/mdowning/batchkb/internal/bundler"
	"github.com/mdowning/batchkb/internal/task"
)

// phaseBundle runs spec.md §4.5 Phase D: one archive per non-empty
// bucket, written under downloads/.
func (o *Orchestrator) phaseBundle(t *task.Task, results []*task.FileResult) {
	for _, bucket := range task.AllBuckets {
		indices := t.Buckets[bucket]
		if len(indices) == 0 {
			continue
		}

		entries := make([]bundler.Entry, 0, len(indices))
		for _, idx := range indices {
			r := results[idx]
			entries = append(entries, bundler.Entry{
				SourcePath:  sourcePathFor(r, bucket),
				ArchivePath: archiveEntryPathFor(r, bucket),
			})
		}

		outPath := filepath.Join(t.Dirs.Downloads, fmt.Sprintf("%s_%s.zip", bucket, t.ID))
		if err := bundler.Build(entries, outPath, o.log); err != nil {
			o.log.Error("orchestrator: bundle failed", "task_id", t.ID, "bucket", bucket, "error", err)
			continue
		}
		t.SetArchivePath(bucket, outPath)
	}
}

// sourcePathFor picks the on-disk file a bucket's archive entry reads
// from: the converted artifact for the converted buckets, the raw
// original for everything preserved as-is.
func sourcePathFor(r *task.FileResult, bucket task.Bucket) string {
	switch bucket {
	case task.BucketDuplicates, task.BucketFailed, task.BucketTempFiles:
		return r.OriginalPath
	case task.BucketPureTextConverted, task.BucketUniquePureText:
		return r.ConvertedPath
	default:
		if r.ConvertedPath != "" {
			return r.ConvertedPath
		}
		return r.OriginalPath
	}
}

// archiveEntryPathFor picks the entry's in-zip path: the original
// relative path for the originals-preserving buckets, the derived
// archive path (possibly extension-swapped) otherwise.
func archiveEntryPathFor(r *task.FileResult, bucket task.Bucket) string {
	switch bucket {
	case task.BucketDuplicates, task.BucketFailed, task.BucketTempFiles:
		return r.PathInfo.RelativePath
	default:
		return r.ArchivePath
	}
}
