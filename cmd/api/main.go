package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/michel-reyes/coin-copilot/internal/config"
	"github.com/michel-reyes/coin-copilot/internal/handler"
	"github.com/michel-reyes/coin-copilot/internal/logger"
	"github.com/michel-reyes/coin-copilot/internal/push"
	"github.com/michel-reyes/coin-copilot/internal/repository"
	"github.com/michel-reyes/coin-copilot/internal/scheduler"
	"github.com/michel-reyes/coin-copilot/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	loc, err := cfg.Location()
	if err != nil {
		fatalf(log, "Invalid timezone configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		fatalf(log, "Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }()

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	tokenRepo := repository.NewPushTokenRepository(db)
	anomalyRepo := repository.NewAnomalyRepository(db)

	// Push gateway client
	pushClient := push.NewClient(cfg.ExpoPushURL, cfg.PushTimeout)

	// Services
	eventService := service.NewEventService(eventRepo, scheduleRepo, logRepo)
	notifierService := service.NewNotifierService(
		eventRepo, scheduleRepo, logRepo, tokenRepo, pushClient,
		loc, cfg.WindowLookback, cfg.WindowLookahead,
	)
	cleanupService := service.NewCleanupService(eventRepo, scheduleRepo, logRepo, loc, cfg.LogRetentionDays)
	anomalyService := service.NewAnomalyService(anomalyRepo)

	// Handlers
	eventHandler := handler.NewEventHandler(eventService)
	tokenHandler := handler.NewPushTokenHandler(tokenRepo)
	logHandler := handler.NewNotificationLogHandler(logRepo)
	anomalyHandler := handler.NewAnomalyHandler(anomalyService)
	jobHandler := handler.NewJobHandler(notifierService, cleanupService)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(handler.AuthMiddleware)

		// Events and their notification schedules
		r.Get("/api/events", eventHandler.List)
		r.Post("/api/events", eventHandler.Create)
		r.Get("/api/events/{id}", eventHandler.Get)
		r.Put("/api/events/{id}", eventHandler.Update)
		r.Delete("/api/events/{id}", eventHandler.Delete)
		r.Post("/api/events/{id}/deactivate", eventHandler.Deactivate)
		r.Post("/api/events/{id}/reactivate", eventHandler.Reactivate)
		r.Post("/api/events/{id}/schedules", eventHandler.AddSchedule)
		r.Put("/api/schedules/{id}", eventHandler.UpdateSchedule)
		r.Delete("/api/schedules/{id}", eventHandler.DeleteSchedule)

		// Device push token registration
		r.Put("/api/notifications/token", tokenHandler.Register)
		r.Delete("/api/notifications/token", tokenHandler.Unregister)
		r.Get("/api/notifications/log", logHandler.History)

		// Spending anomalies
		r.Post("/api/anomalies/check", anomalyHandler.Check)
		r.Get("/api/anomalies", anomalyHandler.List)
		r.Post("/api/anomalies/read", anomalyHandler.MarkAllRead)
		r.Delete("/api/anomalies", anomalyHandler.Purge)

		// Manual job triggers
		r.Post("/api/jobs/notifier/run", jobHandler.RunNotifier)
		r.Post("/api/jobs/cleanup/run", jobHandler.RunCleanup)
	})

	// Background jobs
	schedCfg := scheduler.Config{
		Notifier: scheduler.JobConfig{
			Schedule: cfg.NotifierSchedule,
			Timeout:  cfg.NotifierTimeout,
			Enabled:  cfg.NotifierEnabled,
		},
		Cleanup: scheduler.JobConfig{
			Schedule: cfg.CleanupSchedule,
			Timeout:  cfg.CleanupTimeout,
			Enabled:  cfg.CleanupEnabled,
		},
	}
	jobs := scheduler.New(schedCfg, notifierService, cleanupService, log)
	if err := jobs.Start(); err != nil {
		fatalf(log, "Failed to start scheduler: %v", err)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Handle graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down server...")

		// Stop scheduler first so no job starts mid-shutdown
		ctx := jobs.Stop()
		<-ctx.Done()
		log.Info("Scheduler stopped")

		if err := server.Shutdown(context.Background()); err != nil {
			log.Error("Server shutdown error", slog.String("error", err.Error()))
		}
	}()

	log.Info("Server starting", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func fatalf(l *slog.Logger, format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
