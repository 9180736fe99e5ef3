package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/aegis/pkg/usecase"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/scoring", func(r chi.Router) {
			r.Get("/thresholds", s.handleThresholds)
			r.Get("/risk-score", s.handleRiskScore)
			r.Get("/risk-level", s.handleRiskLevel)
		})

		r.Get("/organizations", s.handleListOrganizations)
		r.Route("/organizations/{org}", func(r chi.Router) {
			r.Get("/controls", s.handleListControls)
			r.Get("/controls/attention", s.handleListAttention)
			r.Get("/controls/{control}/evidence", s.handleListEvidence)
			r.Post("/controls/{control}/evidence", s.handleUploadEvidence)

			r.Get("/assessments", s.handleListAssessments)
			r.Get("/assessments/{control}", s.handleGetAssessment)
			r.Put("/assessments/{control}", s.handlePutAssessment)
			r.Delete("/assessments/{control}", s.handleDeleteAssessment)

			r.Get("/risks", s.handleListRisks)
			r.Post("/risks", s.handleCreateRisk)
			r.Get("/risks/{id}", s.handleGetRisk)
			r.Put("/risks/{id}", s.handleUpdateRisk)
			r.Delete("/risks/{id}", s.handleDeleteRisk)

			r.Get("/action-plans", s.handleListActionPlans)
			r.Post("/action-plans/generate", s.handleGenerateActionPlans)
			r.Get("/action-plans/{id}", s.handleGetActionPlan)
			r.Patch("/action-plans/{id}", s.handleUpdateActionPlan)

			r.Get("/evidence/{id}", s.handleDownloadEvidence)
			r.Delete("/evidence/{id}", s.handleDeleteEvidence)

			r.Get("/summary", s.handleSummary)
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger binds a logger carrying the request ID to the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.Default().With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(logging.With(r.Context(), logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
