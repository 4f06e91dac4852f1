// cmd/notifier/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Nasrulloh23256/NesabaLearn/internal/common/config"
	"github.com/Nasrulloh23256/NesabaLearn/internal/common/database"
	"github.com/Nasrulloh23256/NesabaLearn/internal/common/logger"
	"github.com/Nasrulloh23256/NesabaLearn/internal/common/observability"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/alert"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/delivery"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/ledger"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/recipient"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/scheduler"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/subject"
	"github.com/Nasrulloh23256/NesabaLearn/internal/notify/suppression"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	once := flag.Bool("once", false, "run a single due sweep and exit")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting notifier...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("notifier")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init delivery channel ---
	var deliverer delivery.Deliverer
	if cfg.Notifications.Email.Enabled {
		emailDeliverer, err := delivery.NewEmailDeliverer(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail, log)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		deliverer = emailDeliverer
		zapLog.Info("SES email delivery enabled", zap.String("fromEmail", cfg.Notifications.Email.FromEmail))
	} else {
		deliverer = delivery.NewLogDeliverer(log)
		zapLog.Info("Email delivery disabled, notifications go to the log")
	}

	// --- Init ops alerting ---
	var alerts *alert.Notifier
	if cfg.Alerts.Enabled {
		alerts, err = alert.New(ctx, cfg.Notifications.AWS.Region, cfg.Alerts.TopicARN, log)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		zapLog.Info("SNS ops alerting enabled", zap.String("topicArn", cfg.Alerts.TopicARN))
	}

	// --- Wire the scheduler ---
	svc := scheduler.New(
		ledger.New(pg.DB, log),
		subject.New(pg.DB),
		recipient.New(pg.DB),
		suppression.New(pg.DB),
		deliverer,
		scheduler.NewSweepGuard(rdb.Client, cfg.Notifications.LockTTL, log),
		cfg.App.BaseURL,
		cfg.Notifications.QueueSize,
		log,
	)
	zapLog.Info("Scheduler wired",
		zap.Duration("sweepInterval", cfg.Notifications.SweepInterval),
		zap.Duration("lockTTL", cfg.Notifications.LockTTL),
		zap.Int("queueSize", cfg.Notifications.QueueSize),
	)

	runSweep := func(now time.Time) {
		start := time.Now()
		swept, err := svc.RunDueSweep(ctx, now)
		obs.RecordSweepDuration(ctx, time.Since(start))
		if err != nil {
			obs.RecordSweep(ctx, "failed")
			zapLog.Error("due sweep failed", zap.Error(err))
			alerts.SweepFailed(ctx, err)
			return
		}
		if !swept {
			obs.RecordSweep(ctx, "skipped")
			return
		}
		obs.RecordSweep(ctx, "ok")
	}

	if *once {
		runSweep(time.Now())
		zapLog.Info("Single sweep finished, exiting")
		return
	}

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			}
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Sweep Loop ---
	ticker := time.NewTicker(cfg.Notifications.SweepInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// First sweep right away so a restart never waits a full interval.
	runSweep(time.Now())

	for {
		select {
		case t := <-ticker.C:
			runSweep(t)
		case <-sigCh:
			zapLog.Info("Shutdown signal received, draining event triggers...")

			done := make(chan struct{})
			go func() {
				svc.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(30 * time.Second):
				zapLog.Warn("Event trigger drain timed out")
			}

			zapLog.Info("Notifier stopped gracefully")
			return
		}
	}
}
