package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davidkarp94/Pagina-ML/internal/api/handlers"
	"github.com/davidkarp94/Pagina-ML/internal/api/middleware"
	"github.com/davidkarp94/Pagina-ML/internal/cache"
	"github.com/davidkarp94/Pagina-ML/internal/config"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, catalog handlers.ItemLister, catalogCache *cache.CatalogCache, syncer handlers.SyncRunner) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	catalogHandler := handlers.NewCatalogHandler(catalog, catalogCache, syncer, logger)

	// Health check
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Pagina-ML API is running",
			"status":  "healthy",
		})
	})

	// Routes
	ml := router.Group("/api/ml")
	{
		ml.GET("/items", catalogHandler.List)
		ml.GET("/items-details", catalogHandler.SyncAll)
		ml.GET("/items-details-test", catalogHandler.SyncLimited)
		ml.POST("/checkout", catalogHandler.Checkout)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // full syncs page the whole inventory
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
