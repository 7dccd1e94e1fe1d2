package inventory

import (
	"errors"
	"fmt"
	"strconv"

	"autoflix-backend/internal/audit"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type StockResponse struct {
	BranchID    uint   `json:"branch_id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

type AdjustStockRequest struct {
	BranchID  uint `json:"branch_id"`
	ProductID uint `json:"product_id"`
	Delta     int  `json:"delta"` // İmzalı düzeltme miktarı
}

// GET /api/staff-panel/stocks?branch_id=&product_id=
// Stok listesi (gösterim amaçlı). Rezervasyon kararı bu okumaya dayandırılamaz.
func ListStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.BranchStock{}).Preload("Product")

		if v := c.Query("branch_id"); v != "" {
			bid, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "branch_id geçersiz")
			}
			dbq = dbq.Where("branch_id = ?", bid)
		}
		if v := c.Query("product_id"); v != "" {
			pid, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "product_id geçersiz")
			}
			dbq = dbq.Where("product_id = ?", pid)
		}

		var entries []models.BranchStock
		if err := dbq.Order("branch_id, product_id").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok listelenemedi")
		}

		res := make([]StockResponse, 0, len(entries))
		for _, e := range entries {
			res = append(res, StockResponse{
				BranchID:    e.BranchID,
				ProductID:   e.ProductID,
				ProductName: e.Product.Name,
				Quantity:    e.Quantity,
			})
		}
		return c.JSON(res)
	}
}

// GET /api/staff-panel/stocks/:branchId/:productId
func GetStockHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := strconv.Atoi(c.Params("branchId"))
		if err != nil || branchID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branchId geçersiz")
		}
		productID, err := strconv.Atoi(c.Params("productId"))
		if err != nil || productID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "productId geçersiz")
		}

		qty, err := l.Query(uint(branchID), uint(productID))
		if errors.Is(err, ledger.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Şube/ürün için stok kaydı bulunamadı")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok okunamadı")
		}

		return c.JSON(fiber.Map{
			"branch_id":  branchID,
			"product_id": productID,
			"quantity":   qty,
		})
	}
}

// POST /api/admin/stocks/adjust (sadece super_admin)
// Manuel stok düzeltmesi; sepet akışıyla aynı atomik update disiplininden geçer
func AdjustStockHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.BranchID == 0 || body.ProductID == 0 || body.Delta == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id, product_id ve delta zorunlu")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Şube bulunamadı (ID: %d)", body.BranchID))
		}
		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		if err := l.Adjust(body.BranchID, body.ProductID, body.Delta); err != nil {
			switch {
			case errors.Is(err, ledger.ErrInsufficientStock):
				return fiber.NewError(fiber.StatusConflict, "Stok bu kadar düşürülemez (negatife iner)")
			case errors.Is(err, ledger.ErrNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Şube/ürün için stok kaydı bulunamadı")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Stok düzeltilemedi")
			}
		}

		userIDVal, _ := c.Locals("user_id").(*uint)
		actorID := uint(0)
		if userIDVal != nil {
			actorID = *userIDVal
		}
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &body.BranchID,
			ActorID:     actorID,
			EntityType:  "branch_stock",
			EntityID:    body.ProductID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Manuel stok düzeltmesi: %s, delta %+d", product.Name, body.Delta),
		})

		return c.JSON(fiber.Map{"status": "ok"})
	}
}
