package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davidkarp94/Pagina-ML/internal/models"
)

// TokenStore persists the singleton OAuth token record.
type TokenStore struct {
	db *gorm.DB

	// Environment-seeded credentials used to create the row on first run.
	bootstrapAccess  string
	bootstrapRefresh string
}

func NewTokenStore(db *gorm.DB, bootstrapAccess, bootstrapRefresh string) *TokenStore {
	return &TokenStore{
		db:               db,
		bootstrapAccess:  bootstrapAccess,
		bootstrapRefresh: bootstrapRefresh,
	}
}

// Load returns the stored token record, seeding it from the bootstrap
// credentials when the table is still empty. The seeded record carries a zero
// expiry so the first marketplace call goes through a refresh, which
// establishes the real expiry.
func (s *TokenStore) Load(ctx context.Context) (*models.Token, error) {
	var token models.Token
	err := s.db.WithContext(ctx).First(&token, "id = ?", models.TokenSlotID).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	token = models.Token{
		ID:           models.TokenSlotID,
		AccessToken:  s.bootstrapAccess,
		RefreshToken: s.bootstrapRefresh,
		ExpiresAt:    0,
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to seed token: %w", err)
	}

	return &token, nil
}

// Save replaces the stored record. Called on every successful refresh, before
// the new access token is handed out.
func (s *TokenStore) Save(ctx context.Context, token *models.Token) error {
	token.ID = models.TokenSlotID
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(token).Error
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}
