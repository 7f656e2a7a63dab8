package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/scrapperhq/scrapper/internal/config"
	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/scrape"
	"github.com/scrapperhq/scrapper/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	newRenderer scrape.RendererFactory
	validator   *validator.Validate
}

// Config holds server configuration
type Config struct {
	Port       int
	NavTimeout time.Duration
}

// New creates a new server instance. The database connection and mailer are
// injected so the scheduler can share them.
func New(cfg Config, database *db.DB, mailer MailSender) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	s := &Server{
		db:         database,
		jwtService: NewJWTService(jwtConfig),
		validator:  validator.New(),
		newRenderer: func(ctx context.Context) (scrape.Renderer, error) {
			return scrape.LaunchBrowser(ctx, cfg.NavTimeout)
		},
	}
	s.userService = NewUserService(database, passwordConfig, mailer)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth endpoints
	mux.HandleFunc("POST /auth/signup", s.authHandler.Register)
	mux.HandleFunc("POST /auth/signin", s.authHandler.Login)
	mux.HandleFunc("GET /auth/verify-email", s.authHandler.VerifyEmail)
	mux.HandleFunc("POST /auth/forgot-password", s.authHandler.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password", s.authHandler.ResetPassword)

	// User endpoints
	mux.Handle("GET /users/me", auth(http.HandlerFunc(s.handleGetMe)))
	mux.Handle("PATCH /users/me/password", auth(http.HandlerFunc(s.handleUpdatePassword)))
	mux.Handle("PATCH /users/me/premium", auth(http.HandlerFunc(s.handleUpdatePremium)))

	// Job alert endpoints
	mux.Handle("GET /alerts", auth(http.HandlerFunc(s.handleListAlerts)))
	mux.Handle("POST /alerts", auth(http.HandlerFunc(s.handleCreateAlert)))
	mux.Handle("PATCH /alerts/{id}", auth(http.HandlerFunc(s.handleUpdateAlert)))
	mux.Handle("DELETE /alerts/{id}", auth(http.HandlerFunc(s.handleDeleteAlert)))
	mux.Handle("GET /alerts/{id}/jobs", auth(http.HandlerFunc(s.handleListAlertJobs)))

	// Ad-hoc scrape endpoint
	mux.Handle("GET /scrape/jobs", auth(http.HandlerFunc(s.handleScrapeJobs)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // ad-hoc scrapes render a page inline
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging logs each request with its duration
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}
