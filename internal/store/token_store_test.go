package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davidkarp94/Pagina-ML/internal/models"
)

func newSQLiteTokenStore(t *testing.T) *TokenStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tokens.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Token{}))

	return NewTokenStore(db, "bootstrap-access", "bootstrap-refresh")
}

func TestTokenStore_LoadSeedsBootstrapRow(t *testing.T) {
	store := newSQLiteTokenStore(t)
	ctx := context.Background()

	token, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(models.TokenSlotID), token.ID)
	assert.Equal(t, "bootstrap-access", token.AccessToken)
	assert.Equal(t, "bootstrap-refresh", token.RefreshToken)
	assert.Zero(t, token.ExpiresAt, "seeded token must read as expired so the first call refreshes")

	// A second load must return the same row, not seed again.
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, token.ID, again.ID)
	assert.Equal(t, token.AccessToken, again.AccessToken)
}

func TestTokenStore_SaveReplacesRecord(t *testing.T) {
	store := newSQLiteTokenStore(t)
	ctx := context.Background()

	_, err := store.Load(ctx)
	require.NoError(t, err)

	expiresAt := time.Now().Add(6 * time.Hour).UnixMilli()
	err = store.Save(ctx, &models.Token{
		AccessToken:  "refreshed-access",
		RefreshToken: "rotated-refresh",
		ExpiresAt:    expiresAt,
	})
	require.NoError(t, err)

	token, err := store.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(models.TokenSlotID), token.ID)
	assert.Equal(t, "refreshed-access", token.AccessToken)
	assert.Equal(t, "rotated-refresh", token.RefreshToken)
	assert.Equal(t, expiresAt, token.ExpiresAt)
}

func TestTokenStore_SaveWithoutExistingRow(t *testing.T) {
	store := newSQLiteTokenStore(t)
	ctx := context.Background()

	err := store.Save(ctx, &models.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    123,
	})
	require.NoError(t, err)

	token, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
}
