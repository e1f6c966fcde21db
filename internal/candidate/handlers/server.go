// Package handlers provides the HTTP server implementation for serving the
// CandidateService, bridging the transport layer and business logic,
// translating between wire payloads and domain models.
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vgurov/talentflow/internal/candidate/auth"
	"github.com/vgurov/talentflow/internal/candidate/models"
	"go.uber.org/zap"
)

// CandidateController defines the business logic interface that the HTTP
// handlers will invoke.
type CandidateController interface {
	CreateCandidate(ctx context.Context, input *models.Candidate, caller models.Identity) (*models.Candidate, error)
	GetCandidate(ctx context.Context, id uuid.UUID, caller models.Identity) (*models.Candidate, error)
	ListCandidates(ctx context.Context, caller models.Identity) ([]*models.Candidate, error)
	UpdateCandidate(ctx context.Context, update *models.CandidateUpdate) (*models.Candidate, error)
	NextStatuses(ctx context.Context, id uuid.UUID, caller models.Identity) ([]models.CandidateStatus, error)
}

// Server holds the HTTP server serving the candidate API.
type Server struct {
	httpServer   *http.Server
	logger       *zap.Logger
	httpEndpoint string
}

// NewServer constructs a Server listening on the given port.
func NewServer(httpPort int, logger *zap.Logger) *Server {
	return &Server{
		httpServer:   &http.Server{},
		logger:       logger,
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// RegisterRoutes wires the candidate handler into the router and wraps it
// with the JWT auth middleware.
func (s *Server) RegisterRoutes(h *CandidateHandler, jwtSecret string) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})

	mux.HandleFunc("POST /v1/candidates", h.Create)
	mux.HandleFunc("GET /v1/candidates", h.List)
	mux.HandleFunc("GET /v1/candidates/{id}", h.Get)
	mux.HandleFunc("PATCH /v1/candidates/{id}", h.Update)
	mux.HandleFunc("GET /v1/candidates/{id}/transitions", h.Transitions)

	s.httpServer.Handler = auth.HTTPMiddleware(mux, jwtSecret)
	s.httpServer.Addr = s.httpEndpoint
}

// Handler exposes the configured handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server, blocking until it stops.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP serve error: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	s.logger.Info("Server stopped")
}
