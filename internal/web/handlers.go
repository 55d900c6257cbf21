package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/engine"
	"github.com/JonMunkholm/datalens/internal/logging"
	"github.com/JonMunkholm/datalens/internal/report"
	"github.com/JonMunkholm/datalens/internal/web/views"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK, nil)
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int, alert *views.Alert) {
	recent, err := s.service.Recent(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, status, views.Index(views.IndexPage{
		Recent:      recent,
		MaxFileSize: s.service.MaxFileSize(),
		Extensions:  engine.SupportedExtensions(),
		Alert:       alert,
	}))
}

// handleAnalyzePage analyzes a form upload and renders the results. A
// rejected upload re-renders the form with the error above it.
func (s *Server) handleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	a, err := s.analyzeUpload(w, r)
	if err != nil {
		if wantsJSON(r) {
			s.respondError(w, r, err)
			return
		}
		msg := mapError(err)
		status := statusFor(msg)
		logging.FromContext(r.Context()).Warn("upload rejected", "code", msg.Code, "status", status, "error", err)
		s.renderIndex(w, r, status, &views.Alert{Message: msg.Message, Action: msg.Action, Code: msg.Code})
		return
	}
	s.render(w, r, http.StatusOK, views.Results(a.Report, s.cfg.Report.PageRows))
}

func (s *Server) handleSamplePage(w http.ResponseWriter, r *http.Request) {
	a, err := s.service.Sample(withClient(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, views.Results(a.Report, s.cfg.Report.PageRows))
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.service.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, views.ReportPage(doc, report.HTML(doc)))
}

// analyzeUpload runs the service on the multipart upload in r.
func (s *Server) analyzeUpload(w http.ResponseWriter, r *http.Request) (*core.Analysis, error) {
	up, err := s.readUpload(w, r)
	if err != nil {
		return nil, err
	}
	defer up.file.Close()

	ctx := withClient(r)
	hint, override, err := up.form.hint(up.name)
	if err != nil {
		return nil, err
	}
	if override {
		return s.service.AnalyzeAs(ctx, up.name, up.file, hint)
	}
	return s.service.Analyze(ctx, up.name, up.file)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}

// withClient tags the request context with the caller for analysis logs.
func withClient(r *http.Request) context.Context {
	return core.ContextWithClient(r.Context(), r.RemoteAddr, r.UserAgent())
}
