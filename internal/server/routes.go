package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rehman-1/git-asana-backend/core"
	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/rehman-1/git-asana-backend/schema"
	"github.com/sirupsen/logrus"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.StripSlashes)
	r.Use(s.metrics.instrument)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/reload_all", s.handleReloadAll)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/git/report", s.handleGitReport)
		r.Post("/git/reload", s.handleGitReload)
		r.Get("/asana/summary", s.handleAsanaSummary)
		r.Post("/asana/efforts", s.handleAsanaEfforts)
		r.Post("/asana/developer_summary", s.handleDeveloperSummary)
		r.Post("/asana/reload", s.handleAsanaReload)
		r.Get("/analytics", s.handleAnalytics)
	})
	return r
}

var endpoints = map[string]string{
	"health":                 "/health",
	"reload_all":             "/reload_all",
	"git_report":             "/api/git/report",
	"reload_repos":           "/api/git/reload",
	"asana_summary":          "/api/asana/summary",
	"analytics":              "/api/analytics",
	"estimate_time_per_task": "/api/asana/efforts",
	"developer_summary":      "/api/asana/developer_summary",
	"reload_asana":           "/api/asana/reload",
	"metrics":                "/metrics",
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to Git-Asana Integration API",
		"status":    "running",
		"endpoints": endpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReloadAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.ReloadAll(r.Context())
	if err != nil {
		s.metrics.reloads.WithLabelValues("manual", "error").Inc()
		s.writeError(w, r, err)
		return
	}
	s.metrics.reloads.WithLabelValues("manual", "ok").Inc()
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGitReport(w http.ResponseWriter, r *http.Request) {
	params, ok := s.dateParams(w, r)
	if !ok {
		return
	}
	useCache, _ := contract.ParseBoolString(params.UseCache)

	commits, err := s.svc.GenerateCommitReport(r.Context(), params.StartDate, params.EndDate, useCache)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.commits.Add(float64(len(commits)))
	writeJSON(w, http.StatusOK, map[string]any{"commits": commits, "count": len(commits)})
}

func (s *Server) handleGitReload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "details": s.svc.ReloadRepos(r.Context())})
}

func (s *Server) handleAsanaSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.TaskSummary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAsanaEfforts(w http.ResponseWriter, r *http.Request) {
	params, ok := s.dateParams(w, r)
	if !ok {
		return
	}
	records, err := s.svc.CorrelateTasks(r.Context(), params.StartDate, params.EndDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleDeveloperSummary(w http.ResponseWriter, r *http.Request) {
	params, ok := s.dateParams(w, r)
	if !ok {
		return
	}
	summary, err := s.svc.SummarizeByDeveloper(r.Context(), params.StartDate, params.EndDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAsanaReload(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.ReloadWorkItems(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "tasks_cached": n})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	params, ok := s.dateParams(w, r)
	if !ok {
		return
	}
	report, err := s.svc.DeveloperPerformance(r.Context(), params.StartDate, params.EndDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type errorBody struct {
	Error string `json:"error"`
}

// windowQuery holds the report window query parameters.
type windowQuery struct {
	StartDate string `validate:"required,datetime=2006-01-02"`
	EndDate   string `validate:"required,datetime=2006-01-02"`
	UseCache  string `validate:"omitempty,oneof=yes no true false 1 0"`
}

// dateParams reads and validates the start_date and end_date query parameters.
func (s *Server) dateParams(w http.ResponseWriter, r *http.Request) (windowQuery, bool) {
	q := r.URL.Query()
	params := windowQuery{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		UseCache:  strings.ToLower(q.Get("use_cache")),
	}
	if err := s.validate.Struct(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: validationMessage(err)})
		return windowQuery{}, false
	}
	return params, true
}

// validationMessage turns the first failed rule into a client message.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err.Error()
	}
	fe := errs[0]
	switch {
	case fe.Tag() == "required":
		return "start_date and end_date are required"
	case fe.Field() == "UseCache":
		return "invalid use_cache value"
	default:
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", queryName[fe.Field()])
	}
}

var queryName = map[string]string{"StartDate": "start_date", "EndDate": "end_date"}

// statusFor maps an operation error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, schema.ErrInvalidDate), errors.Is(err, schema.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrWorkItemSource):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	s.log.WithError(err).WithFields(logrus.Fields{
		"path":       r.URL.Path,
		"status":     status,
		"request_id": RequestID(r.Context()),
	}).Warn("request failed")
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
