package main

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"pixbatch/archive"
	"pixbatch/config"
	"pixbatch/encoder"
	"pixbatch/history"
	"pixbatch/job"
	"pixbatch/logger"
	"pixbatch/ratelimit"
	"pixbatch/routes"
	"pixbatch/store"
	uploadbackends "pixbatch/uploadBackends"
)

func main() {
	logger.Info("Starting pixbatch server initialization")

	if err := os.MkdirAll(config.GetDataDir(), 0755); err != nil {
		logger.Fatalf("Failed to create data directory: %v", err)
	}

	// Initialize history store
	logger.Debug("Initializing history database")
	hist, err := history.Open(config.GetHistoryDBPath())
	if err != nil {
		logger.Fatalf("Failed to initialize history store: %v", err)
	}
	defer hist.Close()
	logger.Info("History database initialized successfully")

	// Register image encoders (skips formats whose binaries are missing)
	logger.Info("Registering image encoders")
	encoder.RegisterDefaults()

	jobStore := store.New(config.GetEvictAfter())
	limiter := ratelimit.New(config.GetRateLimitMax(), config.GetRateLimitWindow())

	backend := config.GetUploadBackend()
	logger.Infof("Upload backend: %s", backend)
	uploadFn := func(ctx context.Context, jobID, name string, data []byte) (string, error) {
		accessInfo := config.GetUploadAccessInfo()
		accessInfo["folder"] = jobID
		accessInfo["filename"] = name
		return uploadbackends.UploadImage(ctx, accessInfo, bytes.NewReader(data), backend)
	}

	runner := &job.Runner{
		Store:       jobStore,
		Transcode:   encoder.Transform,
		Upload:      uploadFn,
		Archive:     archive.Build,
		SizeCeiling: config.GetSizeCeiling(),
		History:     hist,
	}

	// Background maintenance: rate limiter sweep plus history cleanup.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go limiter.StartSweeper(ctx, time.Minute)
	go historyCleanupRoutine(ctx, hist)

	rps, burst := config.GetGlobalRateLimit()
	global := rate.NewLimiter(rate.Limit(rps), burst)

	handler := &routes.Handler{
		Store:    jobStore,
		Limiter:  limiter,
		Runner:   runner,
		History:  hist,
		MaxBatch: config.GetMaxBatchSize(),
	}

	logger.Info("Registering HTTP routes")
	mux := http.NewServeMux()
	mux.HandleFunc("/submit", routes.RateLimitMiddleware(global, handler.SubmitHandler))
	mux.HandleFunc("/status", routes.RateLimitMiddleware(global, handler.StatusHandler))
	mux.HandleFunc("/result", routes.RateLimitMiddleware(global, handler.ResultHandler))
	mux.HandleFunc("/history", routes.RateLimitMiddleware(global, handler.HistoryQueryHandler))
	mux.HandleFunc("/history/list", routes.RateLimitMiddleware(global, handler.HistoryListHandler))
	mux.HandleFunc("/health", routes.HealthHandler)
	mux.HandleFunc("/version", routes.VersionHandler)
	mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(config.GetServeDir()))))
	logger.Info("HTTP routes registered successfully")

	server := &http.Server{
		Addr:    config.GetListenAddr(),
		Handler: mux,
	}

	go func() {
		logger.Infof("pixbatch server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutdown signal received, draining in-flight jobs")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP shutdown: %v", err)
	}
	runner.Wait()
	logger.Info("pixbatch server stopped")
}

// historyCleanupRoutine periodically removes old terminal-outcome records.
func historyCleanupRoutine(ctx context.Context, hist *history.Store) {
	logger.Info("History cleanup routine started - will run every 24 hours")
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("History cleanup routine stopped due to context cancellation")
			return
		case <-ticker.C:
			maxAge := 30 * 24 * time.Hour
			logger.Debugf("Cleaning up history records older than %v", maxAge)
			if err := hist.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old history records: %v", err)
			} else {
				logger.Info("Successfully cleaned up old history records")
			}
		}
	}
}
