package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"campus-space-backend/config"
	"campus-space-backend/internal/api"
	"campus-space-backend/internal/course"
	"campus-space-backend/internal/db"
	"campus-space-backend/internal/ingest"
	"campus-space-backend/internal/notification"
	"campus-space-backend/internal/outlet"
	"campus-space-backend/internal/source"
	"campus-space-backend/internal/store"

	"github.com/SherClockHolmes/webpush-go"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "campus-space ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Push notifications are optional: without VAPID keys the API still
	// serves everything except subscriptions.
	var webpushOptions *webpush.Options
	var pool *notification.WorkerPool
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool = notification.NewWorkerPool(cfg.WorkerPool.Size, gormDB, webpushOptions)
		pool.Start(ctx)
		logger.Printf("notification worker pool started with %d workers", cfg.WorkerPool.Size)
	} else {
		logger.Println("VAPID keys not configured; push notifications disabled")
	}

	// Course sources, most trusted first. The static fallback means a
	// refresh cycle can always produce a snapshot.
	static, err := source.NewStaticAdapter()
	if err != nil {
		logger.Fatalf("failed to load bundled sample dataset: %v", err)
	}
	holder := course.NewHolder()
	ingestSvc := ingest.NewService(holder, cfg.Ingest.Interval,
		source.NewAuthAdapter(cfg.Portal),
		source.NewBasicAdapter(cfg.Portal),
		static,
	)
	go ingestSvc.Run(ctx)

	outletSvc := outlet.NewService(appStore, pool)

	// Initialize router
	router := api.NewRouter(cfg.Server, appStore, holder, ingestSvc, outletSvc, webpushOptions)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
