/*
Package main is the entry point for the LiveDocs realtime collaboration server.

It loads configuration, initializes the global logging system, connects the
document store (PostgreSQL, or in-memory in development without a DATABASE_URL),
starts the HTTP server and session manager, and handles operating system
interrupt signals for graceful shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livedocs/internal/app/db"
	"livedocs/internal/app/doc"
	"livedocs/internal/app/storage"
	"livedocs/internal/app/store"
	"livedocs/internal/configs"
	"livedocs/internal/handler"
	"livedocs/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("attachments_enabled", cfg.AttachmentsEnabled()).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect the document store
	var gateway store.Gateway
	if cfg.DatabaseDSN != "" {
		pool, err := db.NewPool(cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to connect to database")
		}
		pg := store.NewPostgresGateway(pool)
		defer pg.Close()
		gateway = pg
	} else {
		logx.Warn("DATABASE_URL not set; documents will not survive a restart.")
		gateway = store.NewMemoryGateway()
	}

	// Initialize object storage for attachments, when configured
	var storageService storage.StorageService
	if cfg.AttachmentsEnabled() {
		storageService, err = storage.NewStorageService(storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			logx.Fatal(err, "Failed to initialize object storage")
		}
	}

	// Initialize the session manager
	manager := doc.NewManager(gateway)

	// Setup HTTP server and routes
	deps := &handler.AppDeps{
		Manager:        manager,
		Config:         cfg,
		Gateway:        gateway,
		StorageService: storageService,
	}
	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("LiveDocs Server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	manager.Shutdown()

	logx.Info("Server gracefully stopped.")
}
