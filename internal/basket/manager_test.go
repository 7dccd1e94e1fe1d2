package basket

import (
	"errors"
	"testing"

	"autoflix-backend/internal/config"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	mgr := NewManager(ledger.New(db), stubCatalog{}, config.RetainFailed)

	customerID := uint(7)
	sess := mgr.Create(&customerID, 2)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, uint(2), sess.BranchID)

	assert.Same(t, sess, mgr.Get(sess.ID))
	assert.Nil(t, mgr.Get("yok-boyle-bir-oturum"))
}

func TestManagerEndReleasesReservations(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	mgr, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 3, 1))
	require.NoError(t, mgr.End(sess.ID))

	assert.Equal(t, 8, stockOf(t, ledger.New(db), 1, 10))
	assert.Nil(t, mgr.Get(sess.ID))
}

// Çifte logout: ikinci End oturumu bulamaz ve stoka ikinci kez iade yapmaz
func TestManagerEndExactlyOnce(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	cat := stubCatalog{10: {Name: "Kola", UnitPrice: 35.5}}
	mgr, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 3, 1))

	require.NoError(t, mgr.End(sess.ID))
	require.NoError(t, mgr.End(sess.ID))

	assert.Equal(t, 8, stockOf(t, ledger.New(db), 1, 10))
}

func TestManagerEndPartialFailureKeepsSession(t *testing.T) {
	db := setupTestDB(t)
	seedStock(t, db, 1, 10, 8)
	seedStock(t, db, 1, 20, 4)
	cat := stubCatalog{
		10: {Name: "Kola", UnitPrice: 35.5},
		20: {Name: "Cips", UnitPrice: 20},
	}
	mgr, sess := newTestSession(t, db, cat, config.RetainFailed)

	require.NoError(t, sess.AddItem(10, 3, 1))
	require.NoError(t, sess.AddItem(20, 2, 1))

	require.NoError(t, db.Where("branch_id = ? AND product_id = ?", 1, 20).
		Delete(&models.BranchStock{}).Error)

	err := mgr.End(sess.ID)
	require.Error(t, err)

	var relErr *ReleaseError
	require.True(t, errors.As(err, &relErr))
	assert.Equal(t, uint(20), relErr.ProductID)

	// Oturum kayda geri takıldı, kalan rezervasyon kaybolmadı
	require.NotNil(t, mgr.Get(sess.ID))
	assert.Len(t, mgr.Get(sess.ID).Contents(), 1)
}
