package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleRunStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"queue_depth": s.orchestrator.QueueDepth(),
		"workers":     s.cfg.WorkerCount,
		"runs":        s.orchestrator.RunStats(),
	})
}
