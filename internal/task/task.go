// Package task implements the process-lifetime task registry of
// spec.md §4.7: task identifiers, per-file results, the eight terminal
// buckets, and the TTL-evicted store that backs status() and
// download().
package task

import (
	"sync"
	"time"
)

// Status is a task's overall lifecycle state.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Disposition records why a file did or didn't proceed through Phase B,
// per spec.md §4.5/§7.
type Disposition string

const (
	DispositionNone      Disposition = "none"
	DispositionDuplicate Disposition = "duplicate"
	DispositionTempFile  Disposition = "temp-file"
	DispositionError     Disposition = "error"
)

// Bucket names the eight disjoint terminal categories of spec.md §4.6.
type Bucket string

const (
	BucketPureTextConverted Bucket = "pure_text_converted"
	BucketRichMediaOriginal Bucket = "rich_media_original"
	BucketAll               Bucket = "all"
	BucketUniquePureText    Bucket = "unique_pure_text"
	BucketUniqueRichMedia   Bucket = "unique_rich_media"
	BucketDuplicates        Bucket = "duplicates"
	BucketFailed            Bucket = "failed"
	BucketTempFiles         Bucket = "temp_files"
)

// AllBuckets lists every bucket in a fixed, stable order for iteration.
var AllBuckets = []Bucket{
	BucketPureTextConverted,
	BucketRichMediaOriginal,
	BucketAll,
	BucketUniquePureText,
	BucketUniqueRichMedia,
	BucketDuplicates,
	BucketFailed,
	BucketTempFiles,
}

// PathInfo decomposes an input file's relative path, per spec.md §3.
type PathInfo struct {
	RelativePath string
	Dir          string
	Stem         string
	Ext          string
}

// FileResult is the per-input record of spec.md §3. Index is the file's
// original position in the submitted batch, used to re-impose a
// deterministic order during bucket assignment.
type FileResult struct {
	Index        int
	PathInfo     PathInfo
	OriginalPath string

	ConvertedPath string
	ArchivePath   string

	IsTextOnly           bool
	ClassificationReason string

	Disposition  Disposition
	ErrorMessage string

	Stats        *PipelineStats
	DocDuplicate bool

	RawByteHash string
	ContentHash string
}

// PipelineStats mirrors textpipeline.Stats without importing that
// package here, keeping task a leaf dependency the orchestrator can
// populate from whichever stats shape it runs.
type PipelineStats struct {
	OriginalLength       int
	NormalizedLength     int
	NoiseRemovedCount    int
	ParagraphsOriginal   int
	ParagraphsExactDup   int
	ParagraphsNearDup    int
	ParagraphsTooShort   int
	ParagraphsAfterDedup int
}

// DedupStats aggregates dedup counters across an entire task, surfaced
// in status() per spec.md §6.
type DedupStats struct {
	OriginalDuplicates int
	DocDuplicates      int
	ParaExactDupTotal  int
	ParaNearDupTotal   int
	NoiseRemovedTotal  int
}

// Dirs holds a task's on-disk working directories, per spec.md §6.
type Dirs struct {
	Root      string
	Original  string
	Converted string
	Downloads string
}

// Task tracks one batch's full lifecycle. Per spec.md §4.7, writes
// during processing are serialised by mu; reads after completion don't
// need it, but taking it is cheap and always correct.
type Task struct {
	mu sync.Mutex

	ID        string
	Dirs      Dirs
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	Results      []*FileResult
	Buckets      map[Bucket][]int
	ArchivePaths map[Bucket]string
	Dedup        DedupStats
}

// New creates a Task in the processing state with empty bucket maps.
func New(id string, dirs Dirs) *Task {
	now := time.Now()
	return &Task{
		ID:           id,
		Dirs:         dirs,
		Status:       StatusProcessing,
		CreatedAt:    now,
		UpdatedAt:    now,
		Buckets:      make(map[Bucket][]int),
		ArchivePaths: make(map[Bucket]string),
	}
}

// SetResults installs the full, index-ordered result set once Phase B
// completes for every file.
func (t *Task) SetResults(results []*FileResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Results = results
	t.UpdatedAt = time.Now()
}

// AssignBucket records that file index idx belongs to bucket b.
func (t *Task) AssignBucket(b Bucket, idx int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Buckets[b] = append(t.Buckets[b], idx)
	t.UpdatedAt = time.Now()
}

// SetArchivePath records the produced archive path for a non-empty
// bucket.
func (t *Task) SetArchivePath(b Bucket, path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ArchivePaths[b] = path
	t.UpdatedAt = time.Now()
}

// AddDedupStats folds one file's pipeline statistics into the task's
// running aggregate.
func (t *Task) AddDedupStats(d DedupStats) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Dedup.OriginalDuplicates += d.OriginalDuplicates
	t.Dedup.DocDuplicates += d.DocDuplicates
	t.Dedup.ParaExactDupTotal += d.ParaExactDupTotal
	t.Dedup.ParaNearDupTotal += d.ParaNearDupTotal
	t.Dedup.NoiseRemovedTotal += d.NoiseRemovedTotal
	t.UpdatedAt = time.Now()
}

// Finish transitions the task to its terminal status.
func (t *Task) Finish(status Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = status
	t.UpdatedAt = time.Now()
}

// Snapshot is a read-only, JSON-safe copy of task state for status().
type Snapshot struct {
	ID        string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	Total  int
	Counts map[Bucket]int

	PureTextFiles  []PureTextEntry
	RichMediaFiles []RichMediaEntry

	Downloads map[Bucket]string
	Dedup     DedupStats
}

// PureTextEntry is one row of status()'s pure_text_files listing.
type PureTextEntry struct {
	OriginalPath  string
	ConvertedPath string
}

// RichMediaEntry is one row of status()'s rich_media_files listing.
type RichMediaEntry struct {
	Path   string
	Reason string
}

// Snapshot builds the read-only view returned by status().
func (t *Task) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	counts := make(map[Bucket]int, len(t.Buckets))
	for b, idxs := range t.Buckets {
		counts[b] = len(idxs)
	}

	var pureText []PureTextEntry
	for _, idx := range t.Buckets[BucketPureTextConverted] {
		r := t.Results[idx]
		pureText = append(pureText, PureTextEntry{
			OriginalPath:  r.PathInfo.RelativePath,
			ConvertedPath: r.ArchivePath,
		})
	}

	var richMedia []RichMediaEntry
	for _, idx := range t.Buckets[BucketRichMediaOriginal] {
		r := t.Results[idx]
		richMedia = append(richMedia, RichMediaEntry{
			Path:   r.PathInfo.RelativePath,
			Reason: r.ClassificationReason,
		})
	}

	downloads := make(map[Bucket]string, len(t.ArchivePaths))
	for b, p := range t.ArchivePaths {
		downloads[b] = p
	}

	return Snapshot{
		ID:             t.ID,
		Status:         t.Status,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Total:          len(t.Results),
		Counts:         counts,
		PureTextFiles:  pureText,
		RichMediaFiles: richMedia,
		Downloads:      downloads,
		Dedup:          t.Dedup,
	}
}
