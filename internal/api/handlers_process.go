package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/fnolgest/internal/pipeline"
	"github.com/dgallion1/fnolgest/internal/report"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// Source name for documents submitted as raw text.
	textSource = "text-input.txt"
)

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		// A part sent without a filename is parsed as a plain value.
		if _, ok := r.MultipartForm.Value["file"]; ok {
			jsonError(w, "No file selected", http.StatusBadRequest)
			return
		}
		jsonError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	res, err := s.processor.ProcessDocument(filename, file)
	if err != nil {
		code, msg := s.classify(err)
		jsonError(w, msg, code)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type processTextRequest struct {
	Text *string `json:"text"`
	File string  `json:"file"`
}

func (s *Server) handleProcessText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req processTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "No text provided", http.StatusBadRequest)
		return
	}
	if req.Text == nil {
		jsonError(w, "No text provided", http.StatusBadRequest)
		return
	}

	source := textSource
	if req.File != "" {
		source = sanitizeFilename(req.File)
	}
	res, err := s.processor.Process(source, *req.Text)
	if err != nil {
		code, msg := s.classify(err)
		jsonError(w, msg, code)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// batchError is the per-file entry for a document that failed.
type batchError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

func (s *Server) handleProcessBatch(w http.ResponseWriter, r *http.Request) {
	maxBody := s.cfg.MaxUploadBytes*int64(s.cfg.MaxBatchFiles) + 10*1024*1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		formError(w, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "No file provided", http.StatusBadRequest)
		return
	}
	if len(files) > s.cfg.MaxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", s.cfg.MaxBatchFiles), http.StatusBadRequest)
		return
	}

	sources := make([]pipeline.Source, len(files))
	for i, fh := range files {
		sources[i] = uploadSource(fh)
	}
	outcomes := s.processor.ProcessBatch(r.Context(), sources, s.cfg.BatchWorkers)

	if r.URL.Query().Get("format") == "xlsx" {
		rows := make([]report.Row, len(outcomes))
		for i, o := range outcomes {
			rows[i] = report.Row{File: o.Source}
			if o.Err != nil {
				_, rows[i].Error = s.classify(o.Err)
				continue
			}
			res := o.Result
			rows[i].Result = &res
		}
		data, err := report.WriteXLSX(rows)
		if err != nil {
			s.log.Error("xlsx export failed", "error", err)
			jsonError(w, pipeline.ErrProcessing.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="fnol-routing.xlsx"`)
		w.Write(data)
		return
	}

	results := make([]any, len(outcomes))
	for i, o := range outcomes {
		if o.Err != nil {
			_, msg := s.classify(o.Err)
			results[i] = batchError{File: o.Source, Error: msg}
			continue
		}
		results[i] = o.Result
	}
	writeJSON(w, http.StatusOK, results)
}

func uploadSource(fh *multipart.FileHeader) pipeline.Source {
	return pipeline.Source{
		Name: sanitizeFilename(fh.Filename),
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

// classify maps a pipeline error to an HTTP status and a client-safe
// message. Internal failures are logged and reported generically.
func (s *Server) classify(err error) (int, string) {
	var acqErr *pipeline.AcquisitionError
	source := ""
	if errors.As(err, &acqErr) {
		source = acqErr.Source
	}
	switch {
	case errors.Is(err, pipeline.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	case errors.Is(err, pipeline.ErrUnsupportedType):
		return http.StatusBadRequest, fmt.Sprintf("unsupported file type: %q", filepath.Ext(source))
	case errors.Is(err, pipeline.ErrNotFound):
		return http.StatusNotFound, "document not found"
	case errors.Is(err, pipeline.ErrUnreadable):
		s.log.Warn("unreadable document", "source", source, "error", err)
		return http.StatusBadRequest, "document could not be read"
	default:
		s.log.Error("processing failed", "error", err)
		return http.StatusInternalServerError, pipeline.ErrProcessing.Error()
	}
}

func formError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		jsonError(w, fmt.Sprintf("request exceeds max size (%d bytes)", maxErr.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	switch name {
	case "", ".", "..", "/":
		name = "unnamed"
	}
	return name
}
