package order

import (
	"fmt"
	"testing"

	"autoflix-backend/internal/basket"
	"autoflix-backend/internal/config"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubCatalog map[uint]basket.Snapshot

func (c stubCatalog) Snapshot(productID uint) (basket.Snapshot, error) {
	snap, ok := c[productID]
	if !ok {
		return basket.Snapshot{}, ledger.ErrNotFound
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

func newFilledSession(t *testing.T, db *gorm.DB) *basket.Session {
	t.Helper()
	seedStock(t, db, 1, 10, 8)
	seedStock(t, db, 2, 20, 4)
	cat := stubCatalog{
		10: {Name: "Kola", UnitPrice: 35.5},
		20: {Name: "Cips", UnitPrice: 20},
	}
	mgr := basket.NewManager(ledger.New(db), cat, config.RetainFailed)
	customerID := uint(1)
	sess := mgr.Create(&customerID, 1)
	require.NoError(t, sess.AddItem(10, 3, 1))
	require.NoError(t, sess.AddItem(20, 2, 2))
	return sess
}

func TestCommitWritesHeaderAndLines(t *testing.T) {
	db := setupTestDB(t)
	sess := newFilledSession(t, db)
	svc := NewService(db)

	orderID, err := svc.Commit(1, sess)
	require.NoError(t, err)
	require.NotZero(t, orderID)

	var ord models.Order
	require.NoError(t, db.Preload("Lines").First(&ord, orderID).Error)
	assert.Equal(t, uint(1), ord.CustomerID)
	require.Len(t, ord.Lines, 2)

	byProduct := make(map[uint]models.OrderLine)
	for _, l := range ord.Lines {
		byProduct[l.ProductID] = l
	}
	assert.Equal(t, 3, byProduct[10].Quantity)
	assert.Equal(t, uint(1), byProduct[10].BranchID)
	assert.Equal(t, 2, byProduct[20].Quantity)
	assert.Equal(t, uint(2), byProduct[20].BranchID)

	// Sepet temizlendi
	assert.Empty(t, sess.Contents())
}

// Checkout stoka dokunmaz: rezervasyon anında düşülen sayaçlar aynen kalır.
// Burada release çağrılsaydı satılan mal stokta yeniden görünürdü.
func TestCommitLeavesLedgerUntouched(t *testing.T) {
	db := setupTestDB(t)
	sess := newFilledSession(t, db)
	svc := NewService(db)
	l := ledger.New(db)

	_, err := svc.Commit(1, sess)
	require.NoError(t, err)

	qty, err := l.Query(1, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	qty, err = l.Query(2, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}

func TestCommitEmptyBasket(t *testing.T) {
	db := setupTestDB(t)
	cat := stubCatalog{}
	mgr := basket.NewManager(ledger.New(db), cat, config.RetainFailed)
	customerID := uint(1)
	sess := mgr.Create(&customerID, 1)
	svc := NewService(db)

	_, err := svc.Commit(1, sess)
	assert.ErrorIs(t, err, ErrEmptyBasket)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

// Kalem yazımı başarısız olursa başlık da geri alınır ve sepet aynen kalır;
// aynı commit daha sonra güvenle tekrar denenebilir
func TestCommitRollbackKeepsBasket(t *testing.T) {
	db := setupTestDB(t)
	sess := newFilledSession(t, db)
	svc := NewService(db)

	require.NoError(t, db.Migrator().DropTable(&models.OrderLine{}))

	_, err := svc.Commit(1, sess)
	require.Error(t, err)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)

	assert.Len(t, sess.Contents(), 2)
}
