package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/prepbook/internal/docxout"
	"github.com/dgallion1/prepbook/internal/mcq"
	"github.com/dgallion1/prepbook/internal/parser"
	"github.com/dgallion1/prepbook/internal/pipeline"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (s *Server) handleReformat(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	layout, err := s.layout(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	job, err := pipeline.NewJob(filename, data, layout)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	job.Title = r.FormValue("title")

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, jobLinks(job))
}

func (s *Server) handleBatchReformat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	layout, err := s.layout(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		job, err := s.submitPart(fh, filename, layout)
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}
		results = append(results, jobLinks(job))
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

func (s *Server) submitPart(fh *multipart.FileHeader, filename string, layout docxout.Options) (*pipeline.Job, error) {
	if !parser.IsSupportedExtension(filename) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file")
	}
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	f.Close()
	if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("file too large or read error")
	}
	job, err := pipeline.NewJob(filename, data, layout)
	if err != nil {
		return nil, err
	}
	if err := s.orchestrator.Submit(job); err != nil {
		return nil, err
	}
	return job, nil
}

// layout reads the optional columns and placement form fields over the
// configured defaults.
func (s *Server) layout(r *http.Request) (docxout.Options, error) {
	layout := s.cfg.Layout()
	if v := r.FormValue("columns"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return layout, fmt.Errorf("columns must be a positive integer")
		}
		layout.Columns = n
	}
	if v := r.FormValue("placement"); v != "" {
		p, err := docxout.ParsePlacement(v)
		if err != nil {
			return layout, err
		}
		layout.Placement = p
	}
	return layout, nil
}

func jobLinks(job *pipeline.Job) map[string]any {
	snap := job.Snapshot()
	return map[string]any{
		"filename":   snap.Filename,
		"job_id":     snap.ID,
		"status":     snap.Status,
		"poll_url":   fmt.Sprintf("/api/reformat/%s/status", snap.ID),
		"result_url": fmt.Sprintf("/api/reformat/%s/result", snap.ID),
	}
}

func (s *Server) handleReformatStatus(w http.ResponseWriter, r *http.Request) {
	job := s.job(w, r)
	if job == nil {
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func (s *Server) handleReformatResult(w http.ResponseWriter, r *http.Request) {
	job := s.completedJob(w, r)
	if job == nil {
		return
	}
	out := job.Output()
	w.Header().Set("Content-Type", docxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resultName(job.Filename, ".docx")))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.Write(out)
}

func (s *Server) handleReformatMCQs(w http.ResponseWriter, r *http.Request) {
	job := s.completedJob(w, r)
	if job == nil {
		return
	}
	questions := job.Questions()
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		if err := mcq.WriteJSON(w, questions); err != nil {
			s.log.Error("write mcq json", "job_id", job.ID, "error", err)
		}
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resultName(job.Filename, ".csv")))
		if err := mcq.WriteCSV(w, questions); err != nil {
			s.log.Error("write mcq csv", "job_id", job.ID, "error", err)
		}
	default:
		jsonError(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

// job resolves the jobID route parameter or writes a 404.
func (s *Server) job(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

// completedJob is job restricted to completed jobs; others get a 409.
func (s *Server) completedJob(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.job(w, r)
	if job == nil {
		return nil
	}
	if snap := job.Snapshot(); snap.Status != pipeline.StatusCompleted {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":  "job is not completed",
			"status": snap.Status,
			"errors": snap.Progress.Errors,
		})
		return nil
	}
	return job
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}

// resultName derives a download name such as "sheet_reformatted.docx".
func resultName(filename, ext string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return base + "_reformatted" + ext
}
