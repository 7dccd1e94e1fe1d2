package catalog

import (
	"fmt"
	"testing"

	"autoflix-backend/internal/database"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSnapshotReturnsCatalogPrice(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Category{Name: "İçecek"}).Error)
	p := models.Product{Name: "Kola", CategoryID: 1, Price: 35.5}
	require.NoError(t, db.Create(&p).Error)

	store := NewStore(db)
	snap, err := store.Snapshot(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kola", snap.Name)
	assert.Equal(t, 35.5, snap.UnitPrice)
}

func TestSnapshotUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	_, err := store.Snapshot(99)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
