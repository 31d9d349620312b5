package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cybergodev/virtualize"
)

// Server is the HTTP API for the virtualize processor.
type Server struct {
	router    chi.Router
	processor *virtualize.Processor
	metrics   *metrics
	gatherer  prometheus.Gatherer
	log       *slog.Logger
	maxBody   int64
}

// New creates the server. Metrics are registered on reg, which is also
// served on /metrics.
func New(p *virtualize.Processor, reg *prometheus.Registry, maxBody int64, log *slog.Logger) *Server {
	s := &Server{
		processor: p,
		metrics:   newMetrics(reg, p),
		gatherer:  reg,
		log:       log,
		maxBody:   maxBody,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log, s.metrics))

	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	r.Post("/v1/virtualize", s.handleVirtualize)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
