package api

import (
	"encoding/json"
	"net/http"
)

// handleDedupStats surfaces the DedupStore's global set sizes, the
// SUPPLEMENTED FEATURES dedup-stats endpoint.
func (s *Server) handleDedupStats(w http.ResponseWriter, r *http.Request) {
	stats := s.orch.DedupStats(r.Context())

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"doc_count":     stats.DocCount,
		"para_count":    stats.ParaCount,
		"simhash_count": stats.SimhashCount,
	})
}
