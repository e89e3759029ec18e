package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/defectlens/pkg/domain/interfaces"
)

// DefaultComputeTimeout bounds one analytics computation
const DefaultComputeTimeout = 10 * time.Second

// Server represents the HTTP server
type Server struct {
	*http.Server
	router         chi.Router
	analyticsUC    interfaces.Analytics
	digestUC       interfaces.Digest
	digestChannel  string
	computeTimeout time.Duration
}

// Option configures Server
type Option func(*Server)

// WithComputeTimeout sets the deadline of a single analytics request
func WithComputeTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.computeTimeout = timeout
	}
}

// WithDigest enables POST /api/defects/digest. defaultChannel is used
// when the request does not name one.
func WithDigest(digestUC interfaces.Digest, defaultChannel string) Option {
	return func(s *Server) {
		s.digestUC = digestUC
		s.digestChannel = defaultChannel
	}
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, addr string, analyticsUC interfaces.Analytics, opts ...Option) *Server {
	s := &Server{
		analyticsUC:    analyticsUC,
		computeTimeout: DefaultComputeTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	router := chi.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(CORS)
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handleHealth)

		r.Route("/defects", func(r chi.Router) {
			r.Get("/", s.handleListDefects)
			r.Get("/analytics", s.handleAnalytics)
			r.Get("/analytics/labels", s.handleLabels)
			if s.digestUC != nil {
				r.Post("/digest", s.handleDigest)
			}
		})
	})

	s.router = router
	s.Server = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	return s
}
