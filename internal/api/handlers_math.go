package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dgallion1/prepbook/internal/inlinemath"
	"github.com/dgallion1/prepbook/internal/mathml"
	"github.com/dgallion1/prepbook/internal/mathspan"
	"github.com/dgallion1/prepbook/internal/stats"
	"github.com/dgallion1/prepbook/internal/surface"
)

// maxMathBody bounds JSON bodies of the math endpoints.
const maxMathBody = 1 << 20

type convertRequest struct {
	LaTeX string `json:"latex"`
	Plain bool   `json:"plain"`
}

type convertResponse struct {
	MathML string `json:"mathml"`
	OMML   string `json:"omml"`
	Text   string `json:"text"`
}

type detectRequest struct {
	Text string `json:"text"`
}

type replaceRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
	Plain  bool   `json:"plain"`
}

type replaceResponse struct {
	Text   string            `json:"text"`
	Result inlinemath.Result `json:"result"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !decode(w, r, &req) {
		return
	}
	start := time.Now()
	tree, err := mathml.Convert(req.LaTeX)
	if err != nil {
		s.orchestrator.Stats().Fail(stats.OpConvert)
		var ce *mathml.ConversionError
		if errors.As(err, &ce) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":    err.Error(),
				"notation": ce.Notation,
				"reason":   ce.Reason,
			})
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if req.Plain {
		tree = mathml.Plain(tree)
	}
	s.orchestrator.Stats().Record(stats.OpConvert, time.Since(start))
	writeJSON(w, http.StatusOK, convertResponse{
		MathML: tree.MathML(),
		OMML:   tree.OMMLString(),
		Text:   tree.Text(),
	})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req detectRequest
	if !decode(w, r, &req) {
		return
	}
	spans := mathspan.Detect(req.Text)
	if spans == nil {
		spans = []mathspan.Span{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"spans":    spans,
		"has_math": inlinemath.OnSelection(req.Text),
	})
}

// replaceFormats maps the format field to the extension surface.Open expects.
var replaceFormats = map[string]string{
	"":         ".txt",
	"text":     ".txt",
	"markdown": ".md",
	"html":     ".html",
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var req replaceRequest
	if !decode(w, r, &req) {
		return
	}
	ext, ok := replaceFormats[req.Format]
	if !ok {
		jsonError(w, fmt.Sprintf("unknown format %q", req.Format), http.StatusBadRequest)
		return
	}
	var out bytes.Buffer
	res, err := s.replace(r, "input"+ext, []byte(req.Text), req.Plain, &out)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, replaceResponse{Text: out.String(), Result: res})
}

// handleReplaceFile rewrites an uploaded document and returns it in the
// same format. Counts are reported in X-Prepbook-* headers.
func (s *Server) handleReplaceFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	filename := sanitizeFilename(header.Filename)
	plain, _ := strconv.ParseBool(r.FormValue("plain"))
	var out bytes.Buffer
	res, err := s.replace(r, filename, data, plain, &out)
	if errors.Is(err, surface.ErrUnsupported) {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(filename))
	if filepath.Ext(filename) == ".docx" {
		ctype = docxContentType
	}
	if ctype == "" {
		ctype = "text/plain; charset=utf-8"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Prepbook-Spans", strconv.Itoa(res.Spans))
	w.Header().Set("X-Prepbook-Replaced", strconv.Itoa(res.Replaced))
	w.Header().Set("X-Prepbook-Failures", strconv.Itoa(len(res.Failures)))
	w.Write(out.Bytes())
}

// replace opens data as a surface document, converts its spans and writes
// the result to out.
func (s *Server) replace(r *http.Request, filename string, data []byte, plain bool, out io.Writer) (inlinemath.Result, error) {
	start := time.Now()
	doc, err := surface.Open(filename, data)
	if err != nil {
		s.orchestrator.Stats().Fail(stats.OpReplace)
		return inlinemath.Result{}, err
	}
	log := s.log.With("filename", filename)
	res, err := inlinemath.Process(r.Context(), doc.Surfaces(), log, inlinemath.Options{Plain: plain})
	if err != nil {
		s.orchestrator.Stats().Fail(stats.OpReplace)
		return res, err
	}
	if _, err := doc.WriteTo(out); err != nil {
		s.orchestrator.Stats().Fail(stats.OpReplace)
		return res, fmt.Errorf("write %s: %w", filename, err)
	}
	s.orchestrator.Stats().Record(stats.OpReplace, time.Since(start))
	return res, nil
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMathBody))
	if err := dec.Decode(v); err != nil {
		jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
