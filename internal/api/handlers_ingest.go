package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mdowning/batchkb/internal/orchestrator"
)

// handleSubmit is the thin HTTP framing over Orchestrator.Submit: a
// multipart form whose "files" parts carry the batch, each part's
// filename doubling as its relative_path (slashes preserved, so a
// directory-style upload works the same as submit()'s ordered list of
// {relative_path, bytes}).
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	files := make([]orchestrator.InputFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open "+fh.Filename, http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			jsonError(w, "failed to read "+fh.Filename, http.StatusBadRequest)
			return
		}
		files = append(files, orchestrator.InputFile{
			RelativePath: fh.Filename,
			Data:         data,
		})
	}

	taskID, err := s.orch.Submit(r.Context(), files)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"task_id":  taskID,
		"poll_url": "/batch/" + taskID,
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
