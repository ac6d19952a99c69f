package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdowning/batchkb/internal/dedupstore"
	"github.com/mdowning/batchkb/internal/task"
)

// phaseIngest runs spec.md §4.5 Phase A: serial, ordered by input
// position. Every file is persisted under original/ before anything
// else happens to it, duplicate or not, so failed-file recovery and
// duplicate retrieval both stay possible.
func (o *Orchestrator) phaseIngest(t *task.Task, files []InputFile) []*task.FileResult {
	results := make([]*task.FileResult, len(files))
	seenRawHash := make(map[string]int, len(files))

	for i, f := range files {
		pi := pathInfoFor(f.RelativePath)
		r := &task.FileResult{Index: i, PathInfo: pi, Disposition: task.DispositionNone}
		results[i] = r

		origPath := filepath.Join(t.Dirs.Original, filepath.FromSlash(f.RelativePath))
		if err := writeFile(origPath, f.Data); err != nil {
			r.Disposition = task.DispositionError
			r.ErrorMessage = fmt.Sprintf("write original: %v", err)
			continue
		}
		r.OriginalPath = origPath
		r.RawByteHash = dedupstore.SHA256Hex(f.Data)

		if _, dup := seenRawHash[r.RawByteHash]; dup {
			r.Disposition = task.DispositionDuplicate
			continue
		}
		seenRawHash[r.RawByteHash] = i
	}
	return results
}

func pathInfoFor(relativePath string) task.PathInfo {
	clean := filepath.ToSlash(relativePath)
	clean = strings.TrimLeft(clean, "/")
	dir := filepath.ToSlash(filepath.Dir(clean))
	if dir == "." {
		dir = ""
	}
	base := filepath.Base(clean)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return task.PathInfo{
		RelativePath: clean,
		Dir:          dir,
		Stem:         stem,
		Ext:          strings.ToLower(ext),
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
