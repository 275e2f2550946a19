// cmd/worker-manager/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sitegen-workers/internal/catalog"
	"sitegen-workers/internal/common/cache"
	"sitegen-workers/internal/common/config"
	"sitegen-workers/internal/common/database"
	"sitegen-workers/internal/common/logger"
	"sitegen-workers/internal/common/observability"
	"sitegen-workers/internal/engine"
	"sitegen-workers/internal/engine/questions"

	edq "sitegen-workers/internal/workers/sitegen/evaluate-data-quality"
	sst "sitegen-workers/internal/workers/sitegen/select-site-template"
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
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebeClient zbc.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL (optional: the catalog store can fall back to the
	// bundled YAML file) ---
	var catalogDB *sql.DB
	if cfg.Database.Postgres.Host != "" {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Warn("postgres unavailable, catalog will load from file", zap.Error(err))
		} else {
			defer pg.Close()
			catalogDB = pg.DB
			zapLog.Info("PostgreSQL connected successfully")
		}
	}

	// --- Init Redis (optional: falls back to the in-process cache) ---
	var catalogCache cache.Cache = cache.NewMemory()
	if cfg.Database.Redis.Address != "" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, using in-process cache", zap.Error(err))
		} else {
			defer redisClient.Close()
			catalogCache = cache.NewRedis(redisClient.Client)
			zapLog.Info("Redis connected successfully")
		}
	}

	// --- Shared engine and catalog store ---
	store := catalog.NewStore(catalogDB, catalogCache, cfg.Catalog, log)
	eng := engine.New(cfg.Engine, log)

	// Warm the catalog so a broken deployment fails fast instead of on the
	// first job.
	if templates, err := store.Load(ctx); err != nil {
		zapLog.Fatal("template catalog unavailable", zap.Error(err))
	} else {
		zapLog.Info("template catalog loaded", zap.Int("templates", len(templates)))
	}

	// --- Register Workers ---
	if cfg.Workers[sst.TaskType].Enabled {
		handler := sst.NewHandler(
			&sst.Config{
				MaxJobsActive: cfg.Workers[sst.TaskType].MaxJobsActive,
				Timeout:       time.Duration(cfg.Workers[sst.TaskType].Timeout) * time.Millisecond,
			},
			eng, store, log,
		).WithObservability(obs)
		startWorker(zeebeClient, sst.TaskType, cfg.Workers[sst.TaskType], handler.Handle, zapLog)
	}

	if cfg.Workers[edq.TaskType].Enabled {
		handler := edq.NewHandler(
			&edq.Config{
				MaxJobsActive: cfg.Workers[edq.TaskType].MaxJobsActive,
				Timeout:       time.Duration(cfg.Workers[edq.TaskType].Timeout) * time.Millisecond,
			},
			eng, questions.New(cfg.Engine, log), log,
		).WithObservability(obs)
		startWorker(zeebeClient, edq.TaskType, cfg.Workers[edq.TaskType], handler.Handle, zapLog)
	}

	zapLog.Info("All workers registered successfully")

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
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		zapLog.Info("Health/Metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc func(worker.JobClient, entities.Job), log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	client.NewJobWorker().
		JobType(taskType).
		Handler(handlerFunc).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
		Open()

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
