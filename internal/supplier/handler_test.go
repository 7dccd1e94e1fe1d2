package supplier

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"autoflix-backend/internal/database"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
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
	database.DB = db
	return db
}

func seedOrderFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Branch{Location: "Merkez"}).Error)
	require.NoError(t, db.Create(&models.Supplier{Name: "Anadolu Dağıtım"}).Error)
	require.NoError(t, db.Create(&models.Category{Name: "İçecek"}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "Kola", CategoryID: 1, Price: 35.5}).Error)
}

func TestCreateBranchOrderBooksStockIn(t *testing.T) {
	db := setupTestDB(t)
	seedOrderFixtures(t, db)

	app := fiber.New()
	app.Post("/api/staff-panel/branch-orders", CreateBranchOrderHandler())

	req := httptest.NewRequest("POST", "/api/staff-panel/branch-orders",
		strings.NewReader(`{"branch_id":1,"supplier_id":1,"product_id":1,"quantity":12}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var count int64
	db.Model(&models.BranchOrder{}).Count(&count)
	assert.EqualValues(t, 1, count)

	qty, err := ledger.New(db).Query(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, qty)
}

func TestDeleteBranchOrderBacksOutStock(t *testing.T) {
	db := setupTestDB(t)
	seedOrderFixtures(t, db)

	order := models.BranchOrder{BranchID: 1, SupplierID: 1, ProductID: 1, Quantity: 10, OrderDate: time.Now()}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.BranchStock{BranchID: 1, ProductID: 1, Quantity: 10}).Error)

	app := fiber.New()
	app.Delete("/api/staff-panel/branch-orders/:id", DeleteBranchOrderHandler())

	resp, err := app.Test(httptest.NewRequest("DELETE", fmt.Sprintf("/api/staff-panel/branch-orders/%d", order.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	db.Model(&models.BranchOrder{}).Count(&count)
	assert.Zero(t, count)

	qty, err := ledger.New(db).Query(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
}

// Giriş kısmen satılmışsa geri alma reddedilir ve sipariş kaydı yerinde kalır:
// stok düşümü ile silme aynı transaction'da, biri düşerse ikisi de düşer
func TestDeleteBranchOrderRejectedWhenPartlySold(t *testing.T) {
	db := setupTestDB(t)
	seedOrderFixtures(t, db)

	order := models.BranchOrder{BranchID: 1, SupplierID: 1, ProductID: 1, Quantity: 10, OrderDate: time.Now()}
	require.NoError(t, db.Create(&order).Error)
	require.NoError(t, db.Create(&models.BranchStock{BranchID: 1, ProductID: 1, Quantity: 10}).Error)

	// Girişin bir kısmı rezervasyonlarla tüketildi
	require.NoError(t, ledger.New(db).Reserve(1, 1, 8))

	app := fiber.New()
	app.Delete("/api/staff-panel/branch-orders/:id", DeleteBranchOrderHandler())

	resp, err := app.Test(httptest.NewRequest("DELETE", fmt.Sprintf("/api/staff-panel/branch-orders/%d", order.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var count int64
	db.Model(&models.BranchOrder{}).Count(&count)
	assert.EqualValues(t, 1, count)

	qty, err := ledger.New(db).Query(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, qty)
}
