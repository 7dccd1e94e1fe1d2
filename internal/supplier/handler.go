package supplier

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"autoflix-backend/internal/audit"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SupplierResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type BranchOrderResponse struct {
	ID           uint    `json:"id"`
	BranchID     uint    `json:"branch_id"`
	SupplierID   uint    `json:"supplier_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	OrderDate    string  `json:"order_date"`
	DeliveryDate *string `json:"delivery_date"`
}

type CreateBranchOrderRequest struct {
	BranchID   uint `json:"branch_id"`
	SupplierID uint `json:"supplier_id"`
	ProductID  uint `json:"product_id"`
	Quantity   int  `json:"quantity"`
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}

		res := make([]SupplierResponse, 0, len(suppliers))
		for _, s := range suppliers {
			res = append(res, SupplierResponse{ID: s.ID, Name: s.Name})
		}
		return c.JSON(res)
	}
}

// GET /api/suppliers/:id/products
// Tedarikçinin sağladığı ürünler (tedarikçi sipariş ekranı için)
func ListSupplierProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		supplierID, err := strconv.Atoi(c.Params("id"))
		if err != nil || supplierID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi ID geçersiz")
		}

		type row struct {
			ID         uint    `json:"id"`
			Name       string  `json:"name"`
			CategoryID uint    `json:"category_id"`
			Price      float64 `json:"price"`
		}
		var rows []row
		if err := database.DB.Table("products").
			Select("products.id, products.name, products.category_id, products.price").
			Joins("JOIN supplier_products ON supplier_products.product_id = products.id").
			Where("supplier_products.supplier_id = ?", supplierID).
			Order("products.name asc").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}
		return c.JSON(rows)
	}
}

// POST /api/branch-orders (personel)
// Tedarikçi siparişi: sipariş kaydı + ledger üzerinden stok girişi.
// Pozitif adjust satır yoksa stok kaydını oluşturur (upsert).
func CreateBranchOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBranchOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.BranchID == 0 || body.SupplierID == 0 || body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id, supplier_id ve product_id zorunlu")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Miktar pozitif olmalı")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Şube bulunamadı (ID: %d)", body.BranchID))
		}
		var supplierRec models.Supplier
		if err := database.DB.First(&supplierRec, "id = ?", body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bulunamadı")
		}
		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		order := models.BranchOrder{
			BranchID:   body.BranchID,
			SupplierID: body.SupplierID,
			ProductID:  body.ProductID,
			Quantity:   body.Quantity,
			OrderDate:  time.Now(),
		}

		// Sipariş kaydı ve stok girişi tek transaction: biri olmadan diğeri kalmaz
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err
			}
			return ledger.New(tx).Adjust(body.BranchID, body.ProductID, body.Quantity)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		userIDVal, _ := c.Locals("user_id").(*uint)
		actorID := uint(0)
		if userIDVal != nil {
			actorID = *userIDVal
		}
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &body.BranchID,
			ActorID:     actorID,
			EntityType:  "branch_order",
			EntityID:    order.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Tedarikçi siparişi: %s, miktar %d", product.Name, body.Quantity),
			After:       order,
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": order.ID})
	}
}

// GET /api/branch-orders?branch_id=
func ListBranchOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.BranchOrder{}).Preload("Product")

		if v := c.Query("branch_id"); v != "" {
			bid, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "branch_id geçersiz")
			}
			dbq = dbq.Where("branch_id = ?", bid)
		}

		var orders []models.BranchOrder
		if err := dbq.Order("order_date DESC").Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]BranchOrderResponse, 0, len(orders))
		for _, o := range orders {
			var deliveryDate *string
			if o.DeliveryDate != nil {
				d := o.DeliveryDate.Format("2006-01-02")
				deliveryDate = &d
			}
			res = append(res, BranchOrderResponse{
				ID:           o.ID,
				BranchID:     o.BranchID,
				SupplierID:   o.SupplierID,
				ProductID:    o.ProductID,
				ProductName:  o.Product.Name,
				Quantity:     o.Quantity,
				OrderDate:    o.OrderDate.Format("2006-01-02"),
				DeliveryDate: deliveryDate,
			})
		}
		return c.JSON(res)
	}
}

// DELETE /api/branch-orders/:id
// Siparişi siler ve stok girişini geri alır. Stok bu arada satılmışsa
// (rezervasyonlar girişi tüketmişse) geri alma reddedilir.
func DeleteBranchOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var order models.BranchOrder
		if err := database.DB.First(&order, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		// Stok geri alma ve sipariş silme tek transaction içinde
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := ledger.New(tx).Adjust(order.BranchID, order.ProductID, -order.Quantity); err != nil {
				return err
			}
			return tx.Delete(&order).Error
		})
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientStock) {
				return fiber.NewError(fiber.StatusConflict, "Stok geri alınamaz: giriş kısmen satılmış")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş silinemedi")
		}

		userIDVal, _ := c.Locals("user_id").(*uint)
		actorID := uint(0)
		if userIDVal != nil {
			actorID = *userIDVal
		}
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &order.BranchID,
			ActorID:     actorID,
			EntityType:  "branch_order",
			EntityID:    order.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Tedarikçi siparişi silindi: ürün %d, miktar %d", order.ProductID, order.Quantity),
			Before:      order,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
