package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/michel-reyes/coin-copilot/internal/config"
	"github.com/michel-reyes/coin-copilot/internal/logger"
	"github.com/michel-reyes/coin-copilot/internal/push"
	"github.com/michel-reyes/coin-copilot/internal/repository"
	"github.com/michel-reyes/coin-copilot/internal/service"
)

// One-shot job runner. Executes a single notification delivery cycle and/or
// cleanup sweep against the configured database, prints the report as JSON,
// and exits. Meant for cron-less deployments and manual replays.
func main() {
	job := flag.String("job", "notifier", "Job to run: notifier, cleanup, or both")
	timeout := flag.Duration("timeout", 5*time.Minute, "Run timeout")
	at := flag.String("at", "", "Override the run instant (RFC3339, default: now)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env, os.Stderr)

	now := time.Now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid -at value %q: %v\n", *at, err)
			os.Exit(1)
		}
		now = parsed
	}

	loc, err := cfg.Location()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	eventRepo := repository.NewEventRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	logRepo := repository.NewNotificationLogRepository(db)
	tokenRepo := repository.NewPushTokenRepository(db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out := map[string]any{}

	if *job == "notifier" || *job == "both" {
		pushClient := push.NewClient(cfg.ExpoPushURL, cfg.PushTimeout)
		notifier := service.NewNotifierService(
			eventRepo, scheduleRepo, logRepo, tokenRepo, pushClient,
			loc, cfg.WindowLookback, cfg.WindowLookahead,
		)

		report, err := notifier.Run(logger.WithJob(ctx, "notifier"), now)
		if err != nil {
			log.Error("Notification run failed", "error", err.Error())
			os.Exit(1)
		}
		out["notifier"] = report
	}

	if *job == "cleanup" || *job == "both" {
		cleanup := service.NewCleanupService(eventRepo, scheduleRepo, logRepo, loc, cfg.LogRetentionDays)

		report, err := cleanup.Run(logger.WithJob(ctx, "cleanup"), now)
		if err != nil {
			log.Error("Cleanup run failed", "error", err.Error())
			os.Exit(1)
		}
		out["cleanup"] = report
	}

	if len(out) == 0 {
		fmt.Fprintf(os.Stderr, "Unknown -job value %q (want notifier, cleanup, or both)\n", *job)
		os.Exit(1)
	}

	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}
