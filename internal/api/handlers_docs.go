package api

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mdowning/batchkb/internal/task"
)

// handleStatus returns the status() snapshot of spec.md §6: per-bucket
// counts, the pure-text/rich-media listings, and dedup aggregates.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	snap, ok := s.orch.Status(taskID)
	if !ok {
		jsonError(w, "task not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"task_id":          snap.ID,
		"status":           snap.Status,
		"total":            snap.Total,
		"counts":           snap.Counts,
		"pure_text_files":  snap.PureTextFiles,
		"rich_media_files": snap.RichMediaFiles,
		"dedup_stats":      snap.Dedup,
		"created_at":       snap.CreatedAt,
		"updated_at":       snap.UpdatedAt,
	})
}

// handleDownload streams one bucket's archive for a task, per spec.md
// §6's download(task_id, category) -> archive path.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskID")
	category := chi.URLParam(r, "category")

	path, ok := s.orch.Download(taskID, task.Bucket(category))
	if !ok {
		jsonError(w, "task or category not found", http.StatusNotFound)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		jsonError(w, "archive unavailable", http.StatusNotFound)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+category+`_`+taskID+`.zip"`)
	http.ServeContent(w, r, path, time.Time{}, f)
}
