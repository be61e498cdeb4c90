package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/secret-post/cliparse"
	"github.com/danielhkuo/secret-post/coordinator"
	"github.com/danielhkuo/secret-post/db"
	"github.com/danielhkuo/secret-post/metrics"
	"github.com/danielhkuo/secret-post/middleware"
	"github.com/danielhkuo/secret-post/notify"
	"github.com/danielhkuo/secret-post/pairing"
	"github.com/danielhkuo/secret-post/report"
	"github.com/danielhkuo/secret-post/router"
	"github.com/danielhkuo/secret-post/store"
)

func main() {
	// A missing .env file is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.LogLevel)}))
	slog.SetDefault(log)

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	metrics.Register(prometheus.DefaultRegisterer)

	var notifier notify.Notifier
	if cfg.DryRun {
		notifier = notify.NewLogNotifier(log)
	} else {
		notifier = notify.NewTelegramNotifier(cfg.BotAPIURL, cfg.BotToken, log)
	}

	clock := clockwork.NewRealClock()
	scheduler := notify.NewScheduler(clock, log)
	defer scheduler.Stop()

	svc := coordinator.New(coordinator.Deps{
		Store:       store.New(dbConn, log),
		Engine:      pairing.NewRandomEngine(),
		Notifier:    notifier,
		Broadcaster: notify.NewBroadcaster(notifier, clock, log),
		Scheduler:   scheduler,
		Clock:       clock,
		Logger:      log,
	}, coordinator.Config{
		DefaultK:       cfg.PairsPerUser,
		MaxAttempts:    cfg.MaxAttempts,
		DeliveryDelay:  cfg.DeliveryDelay,
		TestRecipients: cfg.TestRecipients,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, svc); err != nil {
		slog.Error("command failed", "command", cfg.Command, "error", err)
		stop()
		scheduler.Stop()
		dbConn.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliparse.Config, svc *coordinator.Service) error {
	switch cfg.Command {
	case cliparse.CommandServe:
		return serve(ctx, cfg, svc)

	case cliparse.CommandDistribute:
		// k comes from coordinator.Config.DefaultK
		r, err := svc.Distribute(ctx, nil)
		if err != nil {
			return err
		}
		fmt.Printf("Run %s: %d senders, k=%d, %d attempt(s)\n", r.ID, len(r.Distribution), r.K, r.Attempts)
		report.WriteVerdict(os.Stdout, r.Valid, r.Stats)
		return nil

	case cliparse.CommandShow:
		o, err := svc.Overview(ctx)
		if err != nil {
			return err
		}
		report.WriteDistribution(os.Stdout, o)
		return nil

	case cliparse.CommandSendAssignments:
		r, err := svc.SendAssignments(ctx, cfg.TestMode)
		if err != nil {
			return err
		}
		report.WriteBroadcast(os.Stdout, r)
		return nil

	case cliparse.CommandRemind:
		r, err := svc.SendReminder(ctx, cfg.TestMode)
		if err != nil {
			return err
		}
		report.WriteBroadcast(os.Stdout, r)
		return nil

	case cliparse.CommandTimeline:
		points, err := svc.Timeline(ctx, cfg.Bucket)
		if err != nil {
			return err
		}
		report.WriteTimeline(os.Stdout, points)
		return nil
	}
	return fmt.Errorf("unknown command %q", cfg.Command)
}

func serve(ctx context.Context, cfg cliparse.Config, svc *coordinator.Service) error {
	server := http.Server{
		Handler:           middleware.CORS(router.NewRouter(svc, cfg)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "port", cfg.Port)
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("Server closed")
	return nil
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
