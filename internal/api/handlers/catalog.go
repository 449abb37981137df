package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davidkarp94/Pagina-ML/internal/cache"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/models"
	"github.com/davidkarp94/Pagina-ML/internal/services/meli"
	"github.com/davidkarp94/Pagina-ML/internal/store"
	"github.com/davidkarp94/Pagina-ML/internal/syncer"
)

// ItemLister reads the current catalog snapshot.
type ItemLister interface {
	ListItems(ctx context.Context) ([]models.Item, error)
}

// SyncRunner executes one sync pipeline run.
type SyncRunner interface {
	Run(ctx context.Context, maxItems int) (*syncer.Result, error)
}

type CatalogHandler struct {
	catalog ItemLister
	cache   *cache.CatalogCache
	syncer  SyncRunner
	logger  *logger.Logger
}

func NewCatalogHandler(catalog ItemLister, cache *cache.CatalogCache, syncer SyncRunner, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		cache:   cache,
		syncer:  syncer,
		logger:  logger,
	}
}

// List serves the persisted snapshot to the storefront.
func (h *CatalogHandler) List(c *gin.Context) {
	if items, ok := h.cache.Get(c.Request.Context()); ok {
		respondItems(c, items)
		return
	}

	items, err := h.catalog.ListItems(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.cache.Set(c.Request.Context(), items)
	respondItems(c, items)
}

// SyncAll runs a full sync (discovery, fetch, normalize, persist) and returns
// the committed snapshot.
func (h *CatalogHandler) SyncAll(c *gin.Context) {
	h.runSync(c, 0)
}

// SyncLimited runs a bounded sync for test runs, capped by the limit query
// parameter.
func (h *CatalogHandler) SyncLimited(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BAD_REQUEST",
				"message": "limit must be a positive integer",
			},
		})
		return
	}

	h.runSync(c, limit)
}

func (h *CatalogHandler) runSync(c *gin.Context, maxItems int) {
	result, err := h.syncer.Run(c.Request.Context(), maxItems)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   result.Total,
		"items":   result.Items,
	})
}

// Checkout is a stub: the cart lives in the frontend and no payment flow
// exists yet, so the order is acknowledged and dropped.
func (h *CatalogHandler) Checkout(c *gin.Context) {
	var request struct {
		Items []struct {
			ID       string  `json:"id" binding:"required"`
			Name     string  `json:"name"`
			Price    float64 `json:"price"`
			Quantity int     `json:"quantity" binding:"required,min=1"`
		} `json:"items" binding:"required,min=1"`
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BAD_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	h.logger.Info("checkout stub called with %d cart items", len(request.Items))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "checkout received, payment processing is not implemented",
	})
}

func respondItems(c *gin.Context, items []models.Item) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   len(items),
		"items":   items,
	})
}

// respondError maps domain errors onto the structured error body. Credential
// failures read as service-unavailable so the operator re-triggers the sync
// after fixing the tokens; upstream failures read as bad-gateway.
func (h *CatalogHandler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	var authErr *meli.AuthError
	var fetchErr *meli.FetchError
	var persistErr *store.PersistError

	switch {
	case errors.As(err, &authErr):
		status = http.StatusServiceUnavailable
		code = "AUTHENTICATION_ERROR"
	case errors.As(err, &fetchErr):
		status = http.StatusBadGateway
		code = "UPSTREAM_FETCH_ERROR"
	case errors.As(err, &persistErr):
		code = "PERSISTENCE_ERROR"
	}

	h.logger.Error("request failed: %v", err)

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
