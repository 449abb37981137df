package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/models"
)

// upsertBatchSize is how many rows go into one INSERT ... ON CONFLICT.
const upsertBatchSize = 100

// PersistError means the sync transaction failed and was rolled back. The
// previously committed snapshot is still authoritative.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("catalog sync failed, previous snapshot kept: %v", e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// CatalogStore owns the items table.
type CatalogStore struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewCatalogStore(db *gorm.DB, logger *logger.Logger) *CatalogStore {
	return &CatalogStore{
		db:     db,
		logger: logger,
	}
}

// SyncItems swaps the whole snapshot inside one transaction: delete every
// row, then upsert the new records keyed on item ID in batches. Any failure
// rolls the transaction back, so the table is never left half-truncated.
// Runs at the database's default read-committed isolation; concurrent readers
// see either the old snapshot or the new one.
func (s *CatalogStore) SyncItems(ctx context.Context, items []models.Item) (int, error) {
	for i := range items {
		raw, err := json.Marshal(items[i].Pictures)
		if err != nil {
			return 0, &PersistError{Err: fmt.Errorf("failed to encode pictures for %s: %w", items[i].ID, err)}
		}
		items[i].PicturesRaw = string(raw)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM items").Error; err != nil {
			return err
		}

		for start := 0; start < len(items); start += upsertBatchSize {
			end := start + upsertBatchSize
			if end > len(items) {
				end = len(items)
			}
			batch := items[start:end]

			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&batch).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, &PersistError{Err: err}
	}

	return len(items), nil
}

// ListItems reads the current snapshot. A corrupt pictures encoding on a row
// is logged and degrades to an empty slice; it never fails the listing.
func (s *CatalogStore) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	for i := range items {
		items[i].Pictures = s.decodePictures(items[i].ID, items[i].PicturesRaw)
	}

	return items, nil
}

func (s *CatalogStore) decodePictures(itemID, raw string) []string {
	if raw == "" {
		return []string{}
	}

	var pictures []string
	if err := json.Unmarshal([]byte(raw), &pictures); err != nil {
		s.logger.Warn("item %s has unreadable pictures encoding, serving without pictures: %v", itemID, err)
		return []string{}
	}
	if pictures == nil {
		return []string{}
	}

	return pictures
}
