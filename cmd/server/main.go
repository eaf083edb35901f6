package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"rimble/internal/config"
	"rimble/internal/database"
	"rimble/internal/game"
	"rimble/internal/handlers"
	"rimble/internal/repository"
	"rimble/internal/security"
	"rimble/internal/service"
)

func main() {
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Initialize database (supports sqlite, postgres, mysql)
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize services
	rules := game.NewRules(cfg.AnswerSuffixes, cfg.DefaultMissBudget)
	gameService := service.NewGameService(questionRepo, attemptRepo, profileRepo, rules)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	gameService.SetEmailService(emailService)

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenDuration)
	authService := service.NewAuthService(profileRepo, tokens, emailService)
	backupService := service.NewBackupService(db)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
	}

	// Initialize handlers
	limiter := security.NewRateLimiter(30, time.Minute)
	middleware := handlers.NewMiddleware(tokens, profileRepo, limiter)
	gameHandler := handlers.NewGameHandler(gameService)
	authHandler := handlers.NewAuthHandler(authService, oauthProviders, cfg.OAuthRedirectBaseURL)
	adminHandler := handlers.NewAdminHandler(questionRepo, backupService)

	// Setup routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handlers.Health)

	// Game routes
	mux.HandleFunc("GET /api/today", middleware.OptionalAuth(gameHandler.Today))
	mux.HandleFunc("POST /api/submit", middleware.RateLimit(middleware.OptionalAuth(gameHandler.Submit)))
	mux.HandleFunc("GET /api/profile", middleware.RequireAuth(gameHandler.Profile))

	// Auth routes
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Admin routes
	mux.HandleFunc("PUT /api/admin/questions/{date}", middleware.RequireAdmin(adminHandler.PutQuestion))
	mux.HandleFunc("GET /api/admin/questions/{date}", middleware.RequireAdmin(adminHandler.GetQuestion))
	mux.HandleFunc("GET /api/admin/backup", middleware.RequireAdmin(adminHandler.ExportBackup))
	mux.HandleFunc("POST /api/admin/backup", middleware.RequireAdmin(adminHandler.ImportBackup))

	handler := handlers.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
