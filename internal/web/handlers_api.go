package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/report"
	"github.com/JonMunkholm/datalens/internal/store"
	"github.com/go-chi/chi/v5"
)

// AnalyzeResponse is returned by POST /api/analyze and GET /api/sample.
type AnalyzeResponse struct {
	ReportID string            `json:"reportId"`
	Links    map[string]string `json:"links"`
	Report   *report.Document  `json:"report"`
}

// ReportList is returned by GET /api/reports.
type ReportList struct {
	Reports []store.Entry `json:"reports"`
}

func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, analyzeResponse(a))
}

func (s *Server) handleSampleAPI(w http.ResponseWriter, r *http.Request) {
	a, err := s.service.Sample(withClient(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analyzeResponse(a))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Limiter().Status())
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.Recent(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	writeJSON(w, http.StatusOK, ReportList{Reports: entries})
}

// handleDownloadJSON serves the report as data-analysis-report.json.
func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, doc); err != nil {
		s.respondError(w, r, err)
		return
	}
	attachment(w, "application/json", report.DefaultFileName)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDownloadWorkbook(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, doc); err != nil {
		s.respondError(w, r, err)
		return
	}
	attachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", report.WorkbookFileName)
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleDownloadMarkdown(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	attachment(w, "text/markdown; charset=utf-8", report.MarkdownFileName)
	_, _ = w.Write([]byte(report.Markdown(doc)))
}

func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (*report.Document, bool) {
	doc, err := s.service.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return doc, true
}

func analyzeResponse(a *core.Analysis) AnalyzeResponse {
	base := "/api/reports/" + a.Report.ID
	return AnalyzeResponse{
		ReportID: a.Report.ID,
		Links: map[string]string{
			"json":     base,
			"xlsx":     base + "/xlsx",
			"markdown": base + "/markdown",
			"page":     "/reports/" + a.Report.ID,
		},
		Report: a.Report,
	}
}

func attachment(w http.ResponseWriter, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
}
