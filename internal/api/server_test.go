package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mdowning/batchkb/internal/cleaner"
	"github.com/mdowning/batchkb/internal/config"
	"github.com/mdowning/batchkb/internal/dedupstore"
	"github.com/mdowning/batchkb/internal/orchestrator"
	"github.com/mdowning/batchkb/internal/task"
	"github.com/mdowning/batchkb/internal/textpipeline"
	"github.com/mdowning/batchkb/internal/transcoder"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()

	cfg := config.Config{
		MaxConcurrentTasks: 2,
		ConversionTimeout:  5 * time.Second,
		SkipTempFiles:      true,
		BatchDir:           filepath.Join(root, "batch"),
		TempDir:            filepath.Join(root, "temp"),
	}

	store := dedupstore.NewMemoryStore(discardLogger())
	pipeline, err := textpipeline.New(textpipeline.Config{
		SimhashDistanceThreshold: 3,
		EnableNearDuplicate:      true,
	}, store, discardLogger())
	require.NoError(t, err)

	tc := transcoder.New([]transcoder.Engine{
		&transcoder.NativeTextToDocxEngine{},
	}, cfg.ConversionTimeout, cfg.TempDir, discardLogger())

	orch := orchestrator.New(cfg, store, pipeline, tc, task.NewStore(time.Hour), cleaner.New(cfg.BatchDir, cfg.TempDir, discardLogger()), discardLogger())

	return NewServer(orch, discardLogger(), cfg)
}

func multipartBody(t *testing.T, name, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("files", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandleSubmit_ThenStatusRoundTrip(t *testing.T) {
	s := newTestServer(t)

	body, contentType := multipartBody(t, "docs/a.md", "Paragraph one is ten-plus characters long.")
	req := httptest.NewRequest(http.MethodPost, "/batch/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var submitResp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitResp))
	taskID, _ := submitResp["task_id"].(string)
	require.NotEmpty(t, taskID)

	var statusResp map[string]any
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		statusReq := httptest.NewRequest(http.MethodGet, "/batch/"+taskID, nil)
		statusRec := httptest.NewRecorder()
		s.ServeHTTP(statusRec, statusReq)
		require.Equal(t, http.StatusOK, statusRec.Code)
		require.NoError(t, json.Unmarshal(statusRec.Body.Bytes(), &statusResp))
		if statusResp["status"] != string(task.StatusProcessing) {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	require.Equal(t, string(task.StatusCompleted), statusResp["status"])
	counts, _ := statusResp["counts"].(map[string]any)
	require.EqualValues(t, 1, counts[string(task.BucketPureTextConverted)])
}

func TestHandleStatus_UnknownTaskReturnsNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/batch/does-not-exist", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDedupStats_ReturnsZeroedCountsInitially(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/batch/dedup-stats", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.EqualValues(t, 0, resp["doc_count"])
}
