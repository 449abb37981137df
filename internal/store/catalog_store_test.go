package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/davidkarp94/Pagina-ML/internal/logger"
	"github.com/davidkarp94/Pagina-ML/internal/models"
)

const sqliteItemsDDL = `
CREATE TABLE items (
	id TEXT PRIMARY KEY CHECK (id <> ''),
	title TEXT NOT NULL,
	price DECIMAL(12,2),
	available_quantity INTEGER NOT NULL DEFAULT 0,
	"condition" TEXT,
	pictures TEXT,
	thumbnail TEXT,
	status TEXT,
	created_at DATETIME,
	updated_at DATETIME
)`

func newSQLiteStore(t *testing.T) (*CatalogStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec(sqliteItemsDDL).Error)

	return NewCatalogStore(db, logger.New("error")), db
}

func newMockCatalogStore(t *testing.T) (*CatalogStore, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return NewCatalogStore(gormDB, logger.New("error")), mock, mockDB
}

func catalogItem(id string, qty int) models.Item {
	return models.Item{
		ID:                id,
		Title:             "Producto " + id,
		Price:             decimal.NewFromInt(5000),
		AvailableQuantity: qty,
		Condition:         "new",
		Thumbnail:         "https://img/" + id + ".jpg",
		Status:            "active",
		Pictures:          []string{"https://img/" + id + "-full.jpg"},
	}
}

func TestSyncItems_RoundTrip(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	count, err := store.SyncItems(ctx, []models.Item{
		catalogItem("MLA1", 2),
		catalogItem("MLA2", 7),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "MLA1", items[0].ID)
	assert.Equal(t, []string{"https://img/MLA1-full.jpg"}, items[0].Pictures)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(5000)))
}

func TestSyncItems_ReplacesPreviousSnapshot(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SyncItems(ctx, []models.Item{catalogItem("MLA1", 1), catalogItem("MLA2", 1)})
	require.NoError(t, err)

	// Next snapshot drops MLA2 and adds MLA3.
	_, err = store.SyncItems(ctx, []models.Item{catalogItem("MLA1", 5), catalogItem("MLA3", 1)})
	require.NoError(t, err)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "MLA1", items[0].ID)
	assert.Equal(t, 5, items[0].AvailableQuantity)
	assert.Equal(t, "MLA3", items[1].ID)
}

func TestSyncItems_Idempotent(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	snapshot := []models.Item{catalogItem("MLA1", 1), catalogItem("MLA2", 1), catalogItem("MLA3", 1)}

	first, err := store.SyncItems(ctx, snapshot)
	require.NoError(t, err)
	second, err := store.SyncItems(ctx, snapshot)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestSyncItems_EmptySnapshotIsValid(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SyncItems(ctx, []models.Item{catalogItem("MLA1", 1)})
	require.NoError(t, err)

	count, err := store.SyncItems(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSyncItems_FailedBatchKeepsPreviousSnapshot(t *testing.T) {
	store, _ := newSQLiteStore(t)
	ctx := context.Background()

	_, err := store.SyncItems(ctx, []models.Item{catalogItem("MLA1", 1), catalogItem("MLA2", 1)})
	require.NoError(t, err)

	// 101 records force a second upsert batch; its only row violates the
	// primary key check, so the whole transaction must roll back.
	bad := make([]models.Item, 0, upsertBatchSize+1)
	for i := 0; i < upsertBatchSize; i++ {
		bad = append(bad, catalogItem(fmt.Sprintf("MLA9%03d", i), 1))
	}
	bad = append(bad, catalogItem("", 1))

	_, err = store.SyncItems(ctx, bad)
	require.Error(t, err)

	var persistErr *PersistError
	assert.ErrorAs(t, err, &persistErr)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "MLA1", items[0].ID)
	assert.Equal(t, "MLA2", items[1].ID)
}

func TestSyncItems_RollbackOnBatchFailure(t *testing.T) {
	store, mock, mockDB := newMockCatalogStore(t)
	defer mockDB.Close()

	items := make([]models.Item, 0, upsertBatchSize+50)
	for i := 0; i < upsertBatchSize+50; i++ {
		items = append(items, catalogItem(fmt.Sprintf("MLA%04d", i), 1))
	}

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM items`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO "items"`).
		WillReturnResult(sqlmock.NewResult(0, int64(upsertBatchSize)))
	mock.ExpectExec(`INSERT INTO "items"`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := store.SyncItems(context.Background(), items)
	require.Error(t, err)

	var persistErr *PersistError
	assert.ErrorAs(t, err, &persistErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListItems_CorruptPicturesDegradesToEmpty(t *testing.T) {
	store, db := newSQLiteStore(t)
	ctx := context.Background()

	item := catalogItem("MLA1", 1)
	item.PicturesRaw = "{not json"
	require.NoError(t, db.Create(&item).Error)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.NotNil(t, items[0].Pictures)
	assert.Empty(t, items[0].Pictures)
}
