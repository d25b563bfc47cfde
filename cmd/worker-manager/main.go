// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"studyai-workers/internal/common/camunda"
	"studyai-workers/internal/common/completion"
	"studyai-workers/internal/common/config"
	"studyai-workers/internal/common/database"
	"studyai-workers/internal/common/jobcache"
	"studyai-workers/internal/common/logger"
	"studyai-workers/internal/common/observability"
	"studyai-workers/internal/common/pipeline"
	"studyai-workers/internal/common/structured"
	"studyai-workers/pkg/registry"

	gc "studyai-workers/internal/workers/study-ai/generate-citation"
	gf "studyai-workers/internal/workers/study-ai/generate-flashcards"
	gpp "studyai-workers/internal/workers/study-ai/generate-practice-problems"
	gq "studyai-workers/internal/workers/study-ai/generate-quiz"
	ge "studyai-workers/internal/workers/study-ai/grade-essay"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.Observability.ServiceName, cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis result cache (optional) ---
	var cache *jobcache.Cache
	if cfg.Redis.Address != "" {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Warn("redis unavailable, running without result cache", zap.Error(err))
		} else {
			defer rdb.Close()
			cache = jobcache.New(rdb.Client)
			zapLog.Info("Redis connected successfully")
		}
	} else {
		zapLog.Info("redis.address not set, running without result cache")
	}

	// --- Completion pipeline ---
	completer := completion.NewClient(cfg.Completion, log)
	repairer := structured.NewRepairer(completer, cfg.Completion.RepairModel, cfg.Completion.MaxTokens, log)
	studyPipeline := pipeline.New(completer, repairer, cfg.Features, log, pipeline.WithObservability(obs))

	zapLog.Info("Completion pipeline ready",
		zap.String("endpoint", cfg.Completion.Endpoint()),
		zap.String("defaultModel", cfg.Completion.DefaultModel),
		zap.String("repairModel", cfg.Completion.RepairModel),
	)

	// --- Register workers ---
	workers := camunda.NewWorkers(zeebe.GetClient(), log)

	workerConfig := func(taskType string) config.WorkerConfig {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		wcfg.Enabled = config.IsWorkerEnabled(cfg, taskType)
		return wcfg
	}

	if wcfg := workerConfig(gq.TaskType); wcfg.Enabled {
		handler := gq.NewHandler(gq.NewConfig(wcfg), studyPipeline, cache, log)
		workers.Start(gq.TaskType, wcfg, handler.Handle)
	}

	if wcfg := workerConfig(gf.TaskType); wcfg.Enabled {
		handler := gf.NewHandler(gf.NewConfig(wcfg), studyPipeline, cache, log)
		workers.Start(gf.TaskType, wcfg, handler.Handle)
	}

	if wcfg := workerConfig(ge.TaskType); wcfg.Enabled {
		handler := ge.NewHandler(ge.NewConfig(wcfg), studyPipeline, cache, log)
		workers.Start(ge.TaskType, wcfg, handler.Handle)
	}

	if wcfg := workerConfig(gc.TaskType); wcfg.Enabled {
		handler := gc.NewHandler(gc.NewConfig(wcfg), studyPipeline, cache, log)
		workers.Start(gc.TaskType, wcfg, handler.Handle)
	}

	if wcfg := workerConfig(gpp.TaskType); wcfg.Enabled {
		handler := gpp.NewHandler(gpp.NewConfig(wcfg), studyPipeline, cache, log)
		workers.Start(gpp.TaskType, wcfg, handler.Handle)
	}

	running := workers.Running()
	sort.Strings(running)
	zapLog.Info("workers registered", zap.Strings("taskTypes", running))

	activities, err := registry.Build(cfg)
	if err != nil {
		zapLog.Fatal("activity registry build failed", zap.Error(err))
	}

	// --- Health & Metrics Server ---
	mux := http.DefaultServeMux
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status":  "ready",
			"workers": running,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/activities", activities.Handler())

	server := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workers.Stop(20 * time.Second)

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
