// Package server sets up the HTTP server, router, and all route
// definitions. It is the composition root: the database, token service,
// upload store, services and handlers are all wired together in New, and
// nothing outside this package (and main) knows the concrete dependency
// graph.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/handler"
	"github.com/sakif/imagevault/internal/middleware"
	sqliteRepo "github.com/sakif/imagevault/internal/repository/sqlite"
	"github.com/sakif/imagevault/internal/service"
	"github.com/sakif/imagevault/internal/storage"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string        // path to the SQLite database file
	UploadDir string        // directory uploads are written to and served from
	JWTSecret string        // HMAC secret for access tokens
	TokenTTL  time.Duration // access-token lifetime (0 → default)
	ClientURL string        // allowed CORS origin for the web client
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → services (auth, folder, image) → handlers → routes
//
// Each layer only receives what it needs — handlers never touch the
// database, services never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the services and handlers,
// and registers every route.
//
// ROUTE STRUCTURE:
//
//	POST /api/auth/signup            → create account, issue token
//	POST /api/auth/login             → issue token
//	POST /api/auth/logout            → clear cookie            (auth)
//	GET  /api/auth/me                → current user            (auth)
//	POST /api/folders                → create folder           (auth)
//	GET  /api/folders                → flat list               (auth)
//	GET  /api/folders/nested         → nested forest           (auth)
//	GET  /api/folders/{id}           → single folder           (auth)
//	GET  /api/folders/{id}/images    → images in folder        (auth)
//	POST /api/images                 → multipart upload        (auth)
//	GET  /api/images                 → all images              (auth)
//	GET  /api/images/search?query=   → substring search        (auth)
//	GET  /uploads/*                  → stored image files
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	uploadStore, err := storage.NewLocalStore(s.config.UploadDir)
	if err != nil {
		return fmt.Errorf("creating upload store: %w", err)
	}

	// Global middleware, in order: request ID for tracing, real client IP
	// behind proxies, CORS, panic recovery, request logging.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{s.config.ClientURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true, // the jwt cookie must survive cross-origin calls
	}).Handler)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Uploaded files are served straight from the uploads directory.
	fileServer := http.FileServer(http.Dir(uploadStore.Dir()))
	s.router.Handle("/uploads/*", http.StripPrefix("/uploads/", fileServer))

	// Services and handlers. Each service gets only the repositories it
	// needs from the shared database.
	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	folderService := service.NewFolderService(s.db.Folders(), s.db.Images(), s.logger)
	imageService := service.NewImageService(s.db.Images(), s.db.Folders(), s.logger)

	authHandler := handler.NewAuthHandler(authService, tokens, s.logger)
	folderHandler := handler.NewFolderHandler(folderService, s.logger)
	imageHandler := handler.NewImageHandler(imageService, uploadStore, s.logger)

	requireAuth := auth.RequireAuth(tokens, s.db.Users())

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", authHandler.HandleLogout)
				r.Get("/me", authHandler.HandleMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/folders", func(r chi.Router) {
				r.Post("/", folderHandler.HandleCreate)
				r.Get("/", folderHandler.HandleList)
				r.Get("/nested", folderHandler.HandleNested)
				r.Get("/{id}", folderHandler.HandleGetByID)
				r.Get("/{id}/images", folderHandler.HandleListImages)
			})

			r.Route("/images", func(r chi.Router) {
				r.Post("/", imageHandler.HandleUpload)
				r.Get("/", imageHandler.HandleList)
				r.Get("/search", imageHandler.HandleSearch)
			})
		})
	})

	return nil
}

// Start runs the HTTP server and handles graceful shutdown:
// stop accepting connections, give in-flight requests 30s to finish,
// then close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("uploads", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
