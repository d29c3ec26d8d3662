// Package api exposes the REST surface of the server: authentication,
// file listing and mutation, and usage summaries.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dmitrijs2005/storebox/internal/logging"
	"github.com/dmitrijs2005/storebox/internal/server/config"
	"github.com/dmitrijs2005/storebox/internal/server/models"
	"github.com/dmitrijs2005/storebox/internal/server/services"
)

// UserService is the authentication surface the API needs.
type UserService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
}

// FileService is the file-management surface the API needs.
type FileService interface {
	ListFiles(ctx context.Context, user *models.User, types []string, search, sort string, limit int) ([]*models.FileRecord, error)
	UploadFile(ctx context.Context, user *models.User, name string, data []byte, contentType string) (*models.FileRecord, error)
	RenameFile(ctx context.Context, user *models.User, fileID, newName string) (*models.FileRecord, error)
	UpdateFileSharing(ctx context.Context, user *models.User, fileID string, emails []string) (*models.FileRecord, error)
	DeleteFile(ctx context.Context, user *models.User, fileID string) error
	GetUsageSummary(ctx context.Context, user *models.User) (*models.UsageSummary, error)
}

// Server is the HTTP server hosting the REST API.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger

	users UserService
	files FileService

	secretKey      []byte
	maxUploadBytes int64
	userCache      *expirable.LRU[string, *models.User]
}

// NewServer wires the router and returns a server ready to Run.
func NewServer(cfg *config.Config, logger logging.Logger, users UserService, files FileService) *Server {
	s := &Server{
		logger:         logger.With("component", "api"),
		users:          users,
		files:          files,
		secretKey:      []byte(cfg.SecretKey),
		maxUploadBytes: cfg.MaxUploadBytes,
		userCache:      newUserCache(),
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	router.Use(s.logRequests)

	router.Get("/healthz", s.handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/files", s.handleListFiles)
			r.Post("/files", s.handleUploadFile)
			r.Patch("/files/{fileID}/name", s.handleRenameFile)
			r.Patch("/files/{fileID}/sharing", s.handleUpdateSharing)
			r.Delete("/files/{fileID}", s.handleDeleteFile)

			r.Get("/usage", s.handleUsageSummary)
		})
	})

	s.httpServer = &http.Server{
		Addr:         cfg.EndpointAddrHTTP,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled or the listener fails, then shuts the
// server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info(ctx, "shutting down http server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
