package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/specindex/internal/output"
	"github.com/dgallion1/specindex/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"jobs": s.orchestrator.ListJobs()})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   snap.ID,
		"doc_id":   snap.DocID,
		"status":   snap.Status,
		"phase":    snap.Phase,
		"progress": snap.Progress,
	})
}

func (s *Server) handleJobTOC(w http.ResponseWriter, r *http.Request) {
	res := s.resultFromRequest(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	if _, err := output.EncodeJSONL(w, res.TOC); err != nil {
		s.log.Error("write toc", "error", err)
	}
}

func (s *Server) handleJobContent(w http.ResponseWriter, r *http.Request) {
	res := s.resultFromRequest(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	if _, err := output.EncodeJSONL(w, res.Content); err != nil {
		s.log.Error("write content", "error", err)
	}
}

func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	res := s.resultFromRequest(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res.Report)
}

func (s *Server) handleJobSummary(w http.ResponseWriter, r *http.Request) {
	res := s.resultFromRequest(w, r)
	if res == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res.Summary)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if !s.orchestrator.DeleteJob(jobID) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

// resultFromRequest writes 404 for unknown jobs and 409 for jobs that
// have not completed.
func (s *Server) resultFromRequest(w http.ResponseWriter, r *http.Request) *pipeline.Result {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return nil
	}
	res := job.Result()
	if res == nil {
		jsonError(w, "job has no result (status: "+string(job.Snapshot().Status)+")", http.StatusConflict)
	}
	return res
}
