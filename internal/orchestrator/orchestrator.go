// Package orchestrator implements the BatchOrchestrator of spec.md
// §4.5: ingestion with raw-byte dedup, bounded concurrent per-file
// classify/transcode/clean, bucket assignment, and bundling.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mdowning/batchkb/internal/bundler"
	"github.com/mdowning/batchkb/internal/cleaner"
	"github.com/mdowning/batchkb/internal/config"
	"github.com/mdowning/batchkb/internal/dedupstore"
	"github.com/mdowning/batchkb/internal/task"
	"github.com/mdowning/batchkb/internal/textpipeline"
	"github.com/mdowning/batchkb/internal/transcoder"
)

// Orchestrator coordinates every task. Per spec.md §9's cyclic-graph
// note, every shared collaborator is injected rather than reached for
// as a package-level singleton.
type Orchestrator struct {
	cfg        config.Config
	store      dedupstore.Store
	pipeline   *textpipeline.Pipeline
	transcode  *transcoder.Transcoder
	tasks      *task.Store
	cleaner    *cleaner.Cleaner
	log        *slog.Logger

	// sem is the single shared worker-pool semaphore of spec.md §5:
	// every task's Phase B per-file work acquires a slot here, not a
	// per-task limit, so MAX_CONCURRENT_TASKS bounds total concurrency
	// across every task running at once.
	sem chan struct{}

	wg sync.WaitGroup
}

// New wires an Orchestrator from its collaborators.
func New(
	cfg config.Config,
	store dedupstore.Store,
	pipeline *textpipeline.Pipeline,
	transcode *transcoder.Transcoder,
	tasks *task.Store,
	cl *cleaner.Cleaner,
	log *slog.Logger,
) *Orchestrator {
	limit := cfg.MaxConcurrentTasks
	if limit <= 0 {
		limit = 1
	}
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		pipeline:  pipeline,
		transcode: transcode,
		tasks:     tasks,
		cleaner:   cl,
		log:       log,
		sem:       make(chan struct{}, limit),
	}
}

// Submit allocates a task directory, persists every file's bytes, and
// returns the new task id immediately; processing continues in the
// background. Per spec.md §4.5, submit must not block on per-file work.
func (o *Orchestrator) Submit(ctx context.Context, files []InputFile) (string, error) {
	id, err := task.NewID(time.Now())
	if err != nil {
		return "", fmt.Errorf("orchestrator: generate task id: %w", err)
	}

	dirs := task.Dirs{
		Root:      filepath.Join(o.cfg.BatchDir, id),
		Original:  filepath.Join(o.cfg.BatchDir, id, "original"),
		Converted: filepath.Join(o.cfg.BatchDir, id, "converted"),
		Downloads: filepath.Join(o.cfg.BatchDir, id, "downloads"),
	}
	for _, d := range []string{dirs.Original, dirs.Converted, dirs.Downloads} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", fmt.Errorf("orchestrator: create task directory: %w", err)
		}
	}

	t := task.New(id, dirs)
	o.tasks.Put(t)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.run(context.WithoutCancel(ctx), t, files)
	}()

	return id, nil
}

// Status returns a read-only snapshot of a task's current state, or
// false if the task id isn't registered.
func (o *Orchestrator) Status(id string) (task.Snapshot, bool) {
	t := o.tasks.Get(id)
	if t == nil {
		return task.Snapshot{}, false
	}
	return t.Snapshot(), true
}

// Download returns the on-disk archive path for one task/bucket pair.
func (o *Orchestrator) Download(id string, bucket task.Bucket) (string, bool) {
	t := o.tasks.Get(id)
	if t == nil {
		return "", false
	}
	snap := t.Snapshot()
	path, ok := snap.Downloads[bucket]
	return path, ok
}

// Wait blocks until every in-flight task's background goroutine has
// finished; intended for graceful shutdown and tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// DedupStats reports the DedupStore's current global set sizes, per
// SPEC_FULL's supplemented dedup-stats surface.
func (o *Orchestrator) DedupStats(ctx context.Context) dedupstore.Stats {
	return o.store.Stats(ctx)
}

// run executes phases A through E for a single task.
func (o *Orchestrator) run(ctx context.Context, t *task.Task, files []InputFile) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("orchestrator: task panicked", "task_id", t.ID, "panic", r)
			t.Finish(task.StatusFailed)
		}
	}()

	results := o.phaseIngest(t, files)
	o.phaseProcess(ctx, t, results)
	t.SetResults(results)
	o.phaseBucket(t, results)
	o.phaseBundle(t, results)
	t.Finish(task.StatusCompleted)

	o.log.Info("orchestrator: task completed", "task_id", t.ID, "files", len(files))
}
