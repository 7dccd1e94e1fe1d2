package basket

import (
	"errors"
	"fmt"
	"testing"

	"autoflix-backend/internal/config"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubCatalog map[uint]Snapshot

func (c stubCatalog) Snapshot(productID uint) (Snapshot, error) {
	snap, ok := c[productID]
	if !ok {
		return Snapshot{}, ledger.ErrNotFound
	}
	return snap, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedStock(t *testing.T, db *gorm.DB, branchID, productID uint, qty int) {
	t.Helper()
	require.NoError(t, db.Create(&models.BranchStock{
		BranchID:  branchID,
		ProductID: productID,
		Quantity:  qty,
	}).Error)
}

func stockOf(t *testing.T, l *ledger.Ledger, branchID, productID uint) int {
	t.Helper()
	qty, err := l.Query(branchID, productID)
	require.NoError(t, err)
	return qty
}

func newTestSession(t *testing.T, db *gorm.DB, cat Catalog, retain config.ReleaseRetainPolicy) (*Manager, *Session) {
	t.Helper()
	mgr := NewManager(ledger.New(db), cat, retain)
	customerID := uint(1)
	return mgr, mgr.Create(&customerID, 1)
}

func TestAddItemReservesStock(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 3, 1))

	assert.Equal(t, 5, stockOf(t, ledger.New(db), 1, 10))

	lines := sess.Contents()
	require.Len(t, lines, 1)
	assert.Equal(t, "Kola", lines[0].Name)
	assert.Equal(t, 35.5, lines[0].UnitPrice)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, uint(1), lines[0].BranchID)
}

func TestAddItemInsufficientStockLeavesBasketUnchanged(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 2)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	err := sess.AddItem(10, 3, 1)
	assert.ErrorIs(t, err, ledger.ErrInsufficientStock)

	assert.Empty(t, sess.Contents())
	assert.Equal(t, 2, stockOf(t, ledger.New(db), 1, 10))
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	cat := stubCatalog{}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	err := sess.AddItem(99, 1, 1)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.Empty(t, sess.Contents())
}

func TestAddItemMergesQuantities(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 10)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 2, 1))
	require.NoError(t, sess.AddItem(10, 3, 1))

	lines := sess.Contents()
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, 5, stockOf(t, ledger.New(db), 1, 10))
}

// Aynı ürünü farklı şubeden eklemek reddedilir: merge mevcut satırın şubesine
// yazsaydı iade tüm miktarı eski şubeye bırakır, yeni şubedeki rezervasyon
// sonsuza dek açık kalırdı
func TestAddItemRejectsDifferentBranchForSameProduct(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 5)
	seedStock(t, db, 2, 10, 5)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 2, 1))
	assert.ErrorIs(t, sess.AddItem(10, 2, 2), ErrBranchMismatch)

	// Reddedilen ekleme hiçbir şeyi değiştirmedi
	lines := sess.Contents()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, uint(1), lines[0].BranchID)
	assert.Equal(t, 3, stockOf(t, ledger.New(db), 1, 10))
	assert.Equal(t, 5, stockOf(t, ledger.New(db), 2, 10))

	// İade sonrası her iki şube de başlangıç stokuna döner
	require.NoError(t, sess.ReleaseAll())
	assert.Equal(t, 5, stockOf(t, ledger.New(db), 1, 10))
	assert.Equal(t, 5, stockOf(t, ledger.New(db), 2, 10))
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	db := setupTestDB(t)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	assert.ErrorIs(t, sess.AddItem(10, 0, 1), ErrInvalidQuantity)
	assert.ErrorIs(t, sess.AddItem(10, -1, 1), ErrInvalidQuantity)
}

func TestRemoveItemRestoresStock(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 5, 1))
	require.NoError(t, sess.RemoveItem(10, 2))

	lines := sess.Contents()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 5, stockOf(t, ledger.New(db), 1, 10))

	// Kalan miktarın tamamı çıkınca satır silinir
	require.NoError(t, sess.RemoveItem(10, 3))
	assert.Empty(t, sess.Contents())
	assert.Equal(t, 8, stockOf(t, ledger.New(db), 1, 10))
}

func TestRemoveItemValidation(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	assert.ErrorIs(t, sess.RemoveItem(10, 1), ErrNotInBasket)

	require.NoError(t, sess.AddItem(10, 2, 1))
	assert.ErrorIs(t, sess.RemoveItem(10, 3), ErrInvalidQuantity)
	assert.ErrorIs(t, sess.RemoveItem(10, 0), ErrInvalidQuantity)

	// Başarısız denemeler stoku değiştirmez
	assert.Equal(t, 6, stockOf(t, ledger.New(db), 1, 10))
}

func TestReleaseAllRestoresEveryLine(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	seedStock(t, db, 2, 20, 4)
	cat := stubCatalog{
		10: {Name: "Kola", UnitPrice: 35.5},
		20: {Name: "Cips", UnitPrice: 20},
	}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 3, 1))
	require.NoError(t, sess.AddItem(20, 2, 2))

	require.NoError(t, sess.ReleaseAll())

	assert.Empty(t, sess.Contents())
	assert.Equal(t, 8, stockOf(t, ledger.New(db), 1, 10))
	assert.Equal(t, 4, stockOf(t, ledger.New(db), 2, 20))
}

func TestReleaseAllFailFastRetainFailed(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	seedStock(t, db, 1, 20, 4)
	cat := stubCatalog{
		10: {Name: "Kola", UnitPrice: 35.5},
		20: {Name: "Cips", UnitPrice: 20},
	}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 3, 1))
	require.NoError(t, sess.AddItem(20, 2, 1))

	// İkinci ürünün stok satırı kaybolursa release ErrNotFound ile düşer
	require.NoError(t, db.Where("branch_id = ? AND product_id = ?", 1, 20).
		Delete(&models.BranchStock{}).Error)

	err := sess.ReleaseAll()
	require.Error(t, err)

	var relErr *ReleaseError
	require.True(t, errors.As(err, &relErr))
	assert.Equal(t, uint(20), relErr.ProductID)
	assert.Equal(t, uint(1), relErr.BranchID)
	assert.Equal(t, 2, relErr.Quantity)
	assert.ErrorIs(t, relErr, ledger.ErrNotFound)

	// İlk satır iade edildi ve sepetten düştü; sadece başarısız satır kaldı
	assert.Equal(t, 8, stockOf(t, ledger.New(db), 1, 10))
	lines := sess.Contents()
	require.Len(t, lines, 1)
	assert.Equal(t, uint(20), lines[0].ProductID)
}

func TestReleaseAllFailFastRetainAll(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	seedStock(t, db, 1, 20, 4)
	cat := stubCatalog{
		10: {Name: "Kola", UnitPrice: 35.5},
		20: {Name: "Cips", UnitPrice: 20},
	}
	_, sess := newTestSession(t, db, cat, config.RetainAll)

	require.NoError(t, sess.AddItem(10, 3, 1))
	require.NoError(t, sess.AddItem(20, 2, 1))

	require.NoError(t, db.Where("branch_id = ? AND product_id = ?", 1, 20).
		Delete(&models.BranchStock{}).Error)

	err := sess.ReleaseAll()
	require.Error(t, err)

	// RetainAll tüm seti korur: iade edilen satır da denetim için yerinde kalır
	assert.Len(t, sess.Contents(), 2)
	assert.Equal(t, 8, stockOf(t, ledger.New(db), 1, 10))
}

func TestClearDoesNotTouchLedger(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 3, 1))
	sess.Clear()

	assert.Empty(t, sess.Contents())
	assert.Equal(t, 5, stockOf(t, ledger.New(db), 1, 10))
}

func TestContentsPreservesInsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	seedStock(t, db, 1, 20, 8)
	seedStock(t, db, 1, 30, 8)
	cat := stubCatalog{
		10: {Name: "Kola", UnitPrice: 35.5},
		20: {Name: "Cips", UnitPrice: 20},
		30: {Name: "Su", UnitPrice: 10},
	}
	_, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(20, 1, 1))
	require.NoError(t, sess.AddItem(10, 1, 1))
	require.NoError(t, sess.AddItem(30, 1, 1))

	lines := sess.Contents()
	require.Len(t, lines, 3)
	assert.Equal(t, uint(20), lines[0].ProductID)
	assert.Equal(t, uint(10), lines[1].ProductID)
	assert.Equal(t, uint(30), lines[2].ProductID)
}
