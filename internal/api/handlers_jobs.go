package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/prepbook/internal/pipeline"
)

// handleListJobs lists every tracked reformat job.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	jobs := s.orchestrator.ListJobs()
	filtered := []pipeline.JobSnapshot{}
	for _, j := range jobs {
		if status == "" || string(j.Status) == status {
			filtered = append(filtered, j)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"jobs": filtered})
}

// handleDeleteJob forgets a job and its rendered output.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if !s.orchestrator.DeleteJob(jobID) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job_id": jobID, "deleted": true})
}
