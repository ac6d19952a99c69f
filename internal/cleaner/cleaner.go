// Package cleaner reclaims aged task directories and transient files,
// per spec.md §4.8. Ported from the original kb-jx StorageCleaner, with
// its extra storage-introspection operation kept since it enriches the
// same on-disk layout without adding scope.
package cleaner

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Result reports the outcome of a reclamation pass.
type Result struct {
	DeletedCount int
	BytesFreed   int64
	ErrorCount   int
}

// Cleaner reclaims storage under a single root directory laid out as
// batch/<task_id>/ and a top-level temp/ for transcoder intermediates.
type Cleaner struct {
	batchDir string
	tempDir  string
	log      *slog.Logger
}

// New builds a Cleaner rooted at the given batch and temp directories.
func New(batchDir, tempDir string, log *slog.Logger) *Cleaner {
	return &Cleaner{batchDir: batchDir, tempDir: tempDir, log: log}
}

// CleanOldBatchTasks removes every task directory under batchDir whose
// modification time precedes now - days.
func (c *Cleaner) CleanOldBatchTasks(days int) Result {
	var res Result

	entries, err := os.ReadDir(c.batchDir)
	if err != nil {
		if os.IsNotExist(err) {
			return res
		}
		c.log.Warn("cleaner: cannot list batch directory", "dir", c.batchDir, "error", err)
		return res
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(c.batchDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			res.ErrorCount++
			c.log.Error("cleaner: stat task directory", "path", path, "error", err)
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		size, err := dirSize(path)
		if err != nil {
			c.log.Warn("cleaner: measure task directory size", "path", path, "error", err)
		}

		if err := os.RemoveAll(path); err != nil {
			res.ErrorCount++
			c.log.Error("cleaner: remove task directory", "path", path, "error", err)
			continue
		}

		res.DeletedCount++
		res.BytesFreed += size
		c.log.Info("cleaner: removed task directory", "path", path, "bytes_freed", size)
	}
	return res
}

// CleanOldSingleFiles removes individual temp-directory files older
// than now - days. Unlike task directories, these are flat transcoder
// intermediates rather than a nested per-task tree.
func (c *Cleaner) CleanOldSingleFiles(days int) Result {
	var res Result

	cutoff := time.Now().AddDate(0, 0, -days)
	err := filepath.WalkDir(c.tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			res.ErrorCount++
			return nil
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			res.ErrorCount++
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}

		size := info.Size()
		if err := os.Remove(path); err != nil {
			res.ErrorCount++
			c.log.Error("cleaner: remove temp file", "path", path, "error", err)
			return nil
		}
		res.DeletedCount++
		res.BytesFreed += size
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		c.log.Warn("cleaner: walk temp directory", "dir", c.tempDir, "error", err)
	}
	return res
}

// DirInfo summarizes one directory's current footprint.
type DirInfo struct {
	SizeBytes int64
	FileCount int
}

// StorageInfo reports current usage for both managed directories,
// ported from the original get_storage_info helper.
type StorageInfo struct {
	BatchTasks DirInfo
	TempFiles  DirInfo
	Total      DirInfo
}

// StorageInfo walks both managed roots and reports their current size
// and file counts.
func (c *Cleaner) StorageInfo() StorageInfo {
	batch := dirInfo(c.batchDir)
	temp := dirInfo(c.tempDir)
	return StorageInfo{
		BatchTasks: batch,
		TempFiles:  temp,
		Total: DirInfo{
			SizeBytes: batch.SizeBytes + temp.SizeBytes,
			FileCount: batch.FileCount + temp.FileCount,
		},
	}
}

func dirInfo(root string) DirInfo {
	var info DirInfo
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil
		}
		info.SizeBytes += fi.Size()
		info.FileCount++
		return nil
	})
	return info
}

func dirSize(root string) (int64, error) {
	var size int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		fi, statErr := d.Info()
		if statErr != nil {
			return nil
		}
		size += fi.Size()
		return nil
	})
	return size, err
}
