package main

import (
	"log"

	"github.com/davidkarp94/Pagina-ML/internal/api"
	"github.com/davidkarp94/Pagina-ML/internal/cache"
	"github.com/davidkarp94/Pagina-ML/internal/config"
	"github.com/davidkarp94/Pagina-ML/internal/database"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/services/meli"
	"github.com/davidkarp94/Pagina-ML/internal/store"
	"github.com/davidkarp94/Pagina-ML/internal/syncer"
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

	// Catalog read cache is optional; run without it when redis is absent.
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

	// Initialize API server
	server := api.New(cfg, logger, catalogStore, catalogCache, syncService)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
