package syncer

import (
	"context"
	"time"

	"github.com/davidkarp94/Pagina-ML/internal/cache"
	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/models"
	"github.com/davidkarp94/Pagina-ML/internal/services/meli"
)

// Fetcher pulls inventory from the marketplace.
type Fetcher interface {
	FetchAllItemIDs(ctx context.Context, maxItems int) ([]string, error)
	FetchItemDetails(ctx context.Context, ids []string) ([]meli.RawItem, error)
}

// Catalog persists the normalized snapshot.
type Catalog interface {
	SyncItems(ctx context.Context, items []models.Item) (int, error)
}

// Result summarizes one completed sync run.
type Result struct {
	Total    int           `json:"total"`
	Items    []models.Item `json:"items"`
	Duration time.Duration `json:"-"`
}

// Service drives the sync pipeline: discover IDs, fetch details, normalize,
// persist the snapshot, invalidate the read cache. Each stage must fully
// succeed before the next starts; any error aborts the run and the previous
// snapshot stays in place.
type Service struct {
	fetcher    Fetcher
	normalizer *meli.Normalizer
	catalog    Catalog
	cache      *cache.CatalogCache
	logger     *logger.Logger
}

func New(fetcher Fetcher, normalizer *meli.Normalizer, catalog Catalog, cache *cache.CatalogCache, logger *logger.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		normalizer: normalizer,
		catalog:    catalog,
		cache:      cache,
		logger:     logger,
	}
}

// Run executes one full sync. A maxItems of 0 means the whole inventory.
func (s *Service) Run(ctx context.Context, maxItems int) (*Result, error) {
	start := time.Now()

	ids, err := s.fetcher.FetchAllItemIDs(ctx, maxItems)
	if err != nil {
		return nil, err
	}
	s.logger.Info("sync: discovered %d item ids", len(ids))

	raws, err := s.fetcher.FetchItemDetails(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := s.normalizer.NormalizeAll(raws)
	s.logger.Info("sync: %d of %d items listable after normalization", len(items), len(raws))

	count, err := s.catalog.SyncItems(ctx, items)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)

	duration := time.Since(start)
	s.logger.Info("sync: committed %d items in %s", count, duration)

	return &Result{
		Total:    count,
		Items:    items,
		Duration: duration,
	}, nil
}
