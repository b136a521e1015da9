package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jwebster45206/encounter-engine/internal/config"
	"github.com/jwebster45206/encounter-engine/internal/engine"
	"github.com/jwebster45206/encounter-engine/internal/handlers"
	"github.com/jwebster45206/encounter-engine/internal/logger"
	"github.com/jwebster45206/encounter-engine/internal/middleware"
	"github.com/jwebster45206/encounter-engine/internal/services"
	"github.com/jwebster45206/encounter-engine/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Encounter Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"oracle_provider", cfg.OracleProvider,
		"model_name", cfg.ModelName)

	var oracle services.OracleService
	switch strings.ToLower(cfg.OracleProvider) {
	case "venice":
		if cfg.VeniceAPIKey == "" {
			log.Error("Venice API key is required when using venice provider")
			os.Exit(1)
		}
		oracle = services.NewVeniceService(cfg.VeniceAPIKey, cfg.ModelName)
		log.Info("Using Venice oracle provider")
	default:
		log.Error("Invalid oracle provider specified", "provider", cfg.OracleProvider, "supported", []string{"venice"})
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	if err := oracle.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize oracle model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	events := engine.NewBroadcaster(log)
	eng := engine.New(store, oracle, events, log, cfg.HistoryLimit)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	encounterHandler := handlers.NewEncounterHandler(eng, log)
	mux.Handle("/v1/encounter", encounterHandler)
	mux.Handle("/v1/encounter/", encounterHandler)

	profileHandler := handlers.NewProfileHandler(store, log)
	mux.Handle("/v1/profiles", profileHandler)
	mux.Handle("/v1/profiles/", profileHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout is generous because oracle turns block the request
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
