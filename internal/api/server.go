package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/soochol/textractor/internal/batch"
)

const (
	defaultMaxRequestBytes = 256 << 20 // 256MB
	defaultMaxFileBytes    = 256 << 20
)

type Server struct {
	agg             *batch.Aggregator
	name            string
	version         string
	maxRequestBytes int64
	maxFileBytes    int64
	logger          *slog.Logger
}

func NewServer(agg *batch.Aggregator) *Server {
	return &Server{
		agg:             agg,
		name:            "textractor",
		version:         "dev",
		maxRequestBytes: defaultMaxRequestBytes,
		maxFileBytes:    defaultMaxFileBytes,
		logger:          slog.Default(),
	}
}

// SetVersion sets the version reported by GET /.
func (s *Server) SetVersion(v string) {
	if v != "" {
		s.version = v
	}
}

// SetLimits caps the size of a whole upload and of each file in it.
// Non-positive values keep the defaults.
func (s *Server) SetLimits(maxRequestBytes, maxFileBytes int64) {
	if maxRequestBytes > 0 {
		s.maxRequestBytes = maxRequestBytes
	}
	if maxFileBytes > 0 {
		s.maxFileBytes = maxFileBytes
	}
}

// SetLogger configures the logger used by request handlers.
func (s *Server) SetLogger(l *slog.Logger) {
	if l != nil {
		s.logger = l
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", s.serverInfo)
	r.Post("/extract", s.extractFiles)
	r.Get("/formats", s.listFormats)
	r.Get("/test", s.showForm)
	r.Get("/healthz", s.healthz)
	r.Route("/docs", func(r chi.Router) {
		r.Get("/openapi.yaml", s.openAPIYAML)
		r.Get("/openapi.json", s.openAPIJSON)
	})

	return r
}
