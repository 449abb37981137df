package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/davidkarp94/Pagina-ML/internal/cache"
	"github.com/davidkarp94/Pagina-ML/internal/config"
	"github.com/davidkarp94/Pagina-ML/internal/database"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/services/meli"
	"github.com/davidkarp94/Pagina-ML/internal/store"
	"github.com/davidkarp94/Pagina-ML/internal/syncer"
	"github.com/davidkarp94/Pagina-ML/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	catalogCache, err := cache.NewCatalogCache(cfg.RedisURL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, catalog cache disabled: %v", err)
		catalogCache = nil
	}

	// Marketplace pipeline
	tokenStore := store.NewTokenStore(db.DB, cfg.MLAccessToken, cfg.MLRefreshToken)
	oauth := meli.NewOAuthService(cfg, logger)
	guard := meli.NewTokenGuard(tokenStore, oauth, logger)
	client := meli.NewClient(cfg.MLUserID, guard, logger)
	catalogStore := store.NewCatalogStore(db.DB, logger)
	syncService := syncer.New(client, meli.NewNormalizer(), catalogStore, catalogCache, logger)

	// Initialize worker
	w := worker.New(cfg, logger, syncService)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
}
