package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"
	"time"

	api "dealdesk-backend/internal/api/http"
	"dealdesk-backend/internal/config"
	"dealdesk-backend/internal/jobs"
	"dealdesk-backend/internal/logger"
	"dealdesk-backend/internal/repository/postgres"
	"dealdesk-backend/internal/security"
	"dealdesk-backend/internal/service"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Deal Desk Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "public_base_url", cfg.Server.PublicBaseURL)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.Tokens.SigningSecret,
		time.Duration(cfg.Tokens.ApprovalValidityMinutes)*time.Minute,
	)

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)
	calendarSvc := service.NewCalendarService(store.CalendarEventRepository)
	linkSvc := service.NewLinkService(
		store.PublicLinkRepository,
		store.AuditLogRepository,
		tokenManager,
		cfg.Server.PublicBaseURL,
		time.Duration(cfg.Tokens.PublicLinkExpiryHours)*time.Hour,
	)
	bookingSvc := service.NewBookingService(
		store.BookingRequestRepository,
		store.PublicLinkRepository,
		calendarSvc,
		emailSvc,
		store.NotificationRepository,
		store.AuditLogRepository,
		tokenManager,
		cfg.Server.PublicBaseURL,
		cfg.Operators.InboxEmail,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Job runner backs the authenticated sweep endpoint
	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{Email: emailSvc}, cfg)

	// Set up HTTP server
	router := mux.NewRouter()
	api.RegisterRoutes(router, &api.Handlers{
		Booking:      api.NewBookingHandler(bookingSvc),
		Link:         api.NewLinkHandler(linkSvc),
		Calendar:     api.NewCalendarHandler(calendarSvc),
		Notification: api.NewNotificationHandler(noteSvc, cfg.Operators.InboxEmail),
		JobRunner:    jobRunner,
		SweepSecret:  cfg.Sweep.BearerSecret,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
	if err := server.ListenAndServe(); err != nil {
		logger.Error("Failed to serve HTTP", "error", err)
		log.Fatalf("Failed to serve: %v", err)
	}
}
