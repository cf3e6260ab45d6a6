package web

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/Harjeet1309/pdfmerge/internal/core"
	"github.com/Harjeet1309/pdfmerge/internal/extract"
	"github.com/Harjeet1309/pdfmerge/internal/logging"
	"github.com/Harjeet1309/pdfmerge/internal/table"
	"github.com/Harjeet1309/pdfmerge/internal/web/templates"
)

// Upload form fields.
const (
	fieldFirst  = "pdf1"
	fieldSecond = "pdf2"
)

// multipartMemory is the in-memory part of a parsed form; larger files spill
// to temporary files.
const multipartMemory = 32 << 20

// errInvalidForm marks a request that is not a readable multipart upload.
var errInvalidForm = errors.New("invalid upload form")

// compareResponse is the JSON form of a result.
type compareResponse struct {
	*core.Result
	Columns     []string   `json:"columns,omitempty"`
	Rows        [][]string `json:"rows,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	Message     string     `json:"message,omitempty"`
	Action      string     `json:"action,omitempty"`
	Code        string     `json:"code,omitempty"`
}

func newCompareResponse(res *core.Result) compareResponse {
	resp := compareResponse{Result: res}
	if res.HasData() {
		resp.Columns = res.Table.Columns
		resp.Rows = res.Table.Rows
		resp.DownloadURL = "/api/results/" + res.ID + "/csv"
		return resp
	}
	msg := core.OutcomeMessage(res.Outcome)
	resp.Message, resp.Action, resp.Code = msg.Message, msg.Action, msg.Code
	return resp
}

// handleIndex renders the upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	opts := s.service.Options()
	render(w, r, http.StatusOK, templates.IndexPage(templates.IndexView{
		MaxFileSize:     s.cfg.Upload.MaxFileSize,
		LineThreshold:   opts.LineThreshold,
		ColumnThreshold: opts.ColumnThreshold,
		Reconstruct:     opts.Reconstruct,
		JoinMode:        string(opts.JoinMode),
	}))
}

// handleCompare runs a comparison from the upload form and renders the result.
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	res, err := s.compareUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	status := http.StatusOK
	if res.Outcome == core.OutcomeMissingInput {
		status = http.StatusBadRequest
	}
	render(w, r, status, templates.ResultPage(res))
}

// handleAPICompare runs a comparison and returns the CSV directly, or the
// result as JSON with ?format=json. Outcomes without data are always JSON.
func (s *Server) handleAPICompare(w http.ResponseWriter, r *http.Request) {
	res, err := s.compareUpload(w, r)
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}

	if res.HasData() && !strings.EqualFold(r.URL.Query().Get("format"), "json") {
		writeResultCSV(w, r, res)
		return
	}
	writeJSON(w, statusForOutcome(res.Outcome), newCompareResponse(res))
}

// handleAPIResult returns a stored result as JSON.
func (s *Server) handleAPIResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Result(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}
	writeJSON(w, http.StatusOK, newCompareResponse(res))
}

// handleResultCSV downloads the table of a stored result.
func (s *Server) handleResultCSV(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Result(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err, statusForError(err))
		return
	}
	if !res.HasData() {
		respondError(w, r, res.Outcome.Err(), http.StatusNotFound)
		return
	}
	writeResultCSV(w, r, res)
}

// handleStatus reports limiter and result store counters.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// compareUpload reads both uploads and runs the comparison. A missing or
// empty file is passed on as a nil document so it is reported as the
// missing-input outcome.
func (s *Server) compareUpload(w http.ResponseWriter, r *http.Request) (*core.Result, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 2*maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", errInvalidForm, err)
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	docA, err := readUpload(r, fieldFirst, maxSize)
	if err != nil {
		return nil, err
	}
	docB, err := readUpload(r, fieldSecond, maxSize)
	if err != nil {
		return nil, err
	}

	return s.service.Compare(WithRequestMetadata(r.Context(), r), docA, docB)
}

// readUpload reads one form file into a Document. It returns a nil Document
// for an absent or empty file.
func readUpload(r *http.Request, field string, maxSize int64) (*extract.Document, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errInvalidForm, field, err)
	}
	defer file.Close()

	name := uploadName(header.Filename, field)
	doc, err := extract.ReadDocument(name, file, maxSize)
	if errors.Is(err, extract.ErrEmptyDocument) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := doc.CheckHeader(); err != nil {
		return nil, err
	}
	return doc, nil
}

// uploadName keeps the base name of a client supplied filename.
func uploadName(filename, fallback string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return fallback
	}
	return name
}

// writeResultCSV streams the result table as an attachment.
func writeResultCSV(w http.ResponseWriter, r *http.Request, res *core.Result) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": res.Filename}))
	w.Header().Set("X-Compare-ID", res.ID)
	w.Header().Set("X-Compare-Mode", string(res.Mode))
	w.WriteHeader(http.StatusOK)

	if err := table.WriteCSV(w, res.Table); err != nil {
		logging.FromContext(r.Context()).Error("csv write failed", "compare_id", res.ID, "error", err)
	}
}

// render writes a templ component as an HTML response.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render failed", "path", r.URL.Path, "error", err)
	}
}
