package orchestrator

import (
	"github.com/mdowning/batchkb/internal/dedupstore"
	"github.com/mdowning/batchkb/internal/task"
)

// phaseBucket runs spec.md §4.5 Phase C / §4.6: partitions results into
// the eight disjoint terminal buckets, re-imposing the original input
// order.
func (o *Orchestrator) phaseBucket(t *task.Task, results []*task.FileResult) {
	seenPureTextHash := make(map[string]bool)
	seenRichMediaHash := make(map[string]bool)
	rawDuplicates := 0

	for _, r := range results {
		switch r.Disposition {
		case task.DispositionDuplicate:
			t.AssignBucket(task.BucketDuplicates, r.Index)
			rawDuplicates++
			continue
		case task.DispositionError:
			t.AssignBucket(task.BucketFailed, r.Index)
			continue
		case task.DispositionTempFile:
			t.AssignBucket(task.BucketTempFiles, r.Index)
			continue
		}

		if r.IsTextOnly && r.ConvertedPath != "" {
			t.AssignBucket(task.BucketPureTextConverted, r.Index)
			t.AssignBucket(task.BucketAll, r.Index)

			hash := r.ContentHash
			if hash != "" && !seenPureTextHash[hash] {
				seenPureTextHash[hash] = true
				t.AssignBucket(task.BucketUniquePureText, r.Index)
			}
			continue
		}

		if !r.IsTextOnly {
			t.AssignBucket(task.BucketRichMediaOriginal, r.Index)
			t.AssignBucket(task.BucketAll, r.Index)

			artifactPath := r.ConvertedPath
			if artifactPath == "" {
				artifactPath = r.OriginalPath
			}
			hash, err := dedupstore.FileSHA256Hex(artifactPath)
			if err == nil && !seenRichMediaHash[hash] {
				seenRichMediaHash[hash] = true
				t.AssignBucket(task.BucketUniqueRichMedia, r.Index)
			}
		}
	}

	if rawDuplicates > 0 {
		t.AddDedupStats(task.DedupStats{OriginalDuplicates: rawDuplicates})
	}
}
