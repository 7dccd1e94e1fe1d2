package basket

import (
	"errors"
	"fmt"

	"autoflix-backend/internal/audit"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AddItemRequest struct {
	ProductID uint  `json:"product_id"`
	Quantity  int   `json:"quantity"`
	BranchID  *uint `json:"branch_id"` // Boşsa müşterinin kendi şubesi
}

type RemoveItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type LineResponse struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	BranchID  uint    `json:"branch_id"`
	Total     float64 `json:"total"`
}

// Oturumu token'daki session_id ile bulur
func sessionFromCtx(c *fiber.Ctx, mgr *Manager) (*Session, error) {
	sid, _ := c.Locals("session_id").(string)
	if sid == "" {
		return nil, fiber.NewError(fiber.StatusForbidden, "Sepet oturumu yok")
	}
	sess := mgr.Get(sid)
	if sess == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Sepet oturumu sonlanmış, tekrar giriş yapın")
	}
	return sess, nil
}

// Ledger/sepet hatalarını HTTP koduna çevirir
func mapBasketError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientStock):
		return fiber.NewError(fiber.StatusConflict, "Yetersiz stok")
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Şube/ürün için stok kaydı bulunamadı")
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ledger.ErrInvalidQuantity):
		return fiber.NewError(fiber.StatusBadRequest, "Miktar geçersiz")
	case errors.Is(err, ErrNotInBasket):
		return fiber.NewError(fiber.StatusBadRequest, "Ürün sepette yok")
	case errors.Is(err, ErrBranchMismatch):
		return fiber.NewError(fiber.StatusConflict, "Ürün sepette başka bir şubeden rezerve edilmiş")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Sepet işlemi başarısız")
	}
}

func actorName(sess *Session) string {
	if sess.CustomerID == nil {
		return "personel"
	}
	var customer models.Customer
	if err := database.DB.Select("first_name", "surname").First(&customer, "id = ?", *sess.CustomerID).Error; err != nil {
		return ""
	}
	return customer.FirstName + " " + customer.Surname
}

// POST /api/basket/add
func AddItemHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, mgr)
		if err != nil {
			return err
		}

		var body AddItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}

		branchID := sess.BranchID
		if body.BranchID != nil && *body.BranchID != 0 {
			branchID = *body.BranchID
		}

		if err := sess.AddItem(body.ProductID, body.Quantity, branchID); err != nil {
			return mapBasketError(err)
		}

		actorID := uint(0)
		if sess.CustomerID != nil {
			actorID = *sess.CustomerID
		}
		_ = audit.WriteLog(audit.LogOptions{
			BranchID:    &branchID,
			ActorID:     actorID,
			ActorName:   actorName(sess),
			EntityType:  "branch_stock",
			EntityID:    body.ProductID,
			Action:      models.AuditActionReserve,
			Description: fmt.Sprintf("Rezervasyon: ürün %d, miktar %d", body.ProductID, body.Quantity),
		})

		return c.JSON(fiber.Map{"status": "added"})
	}
}

// POST /api/basket/remove
func RemoveItemHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, mgr)
		if err != nil {
			return err
		}

		var body RemoveItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}

		if err := sess.RemoveItem(body.ProductID, body.Quantity); err != nil {
			return mapBasketError(err)
		}

		actorID := uint(0)
		if sess.CustomerID != nil {
			actorID = *sess.CustomerID
		}
		_ = audit.WriteLog(audit.LogOptions{
			ActorID:     actorID,
			ActorName:   actorName(sess),
			EntityType:  "branch_stock",
			EntityID:    body.ProductID,
			Action:      models.AuditActionRelease,
			Description: fmt.Sprintf("İade: ürün %d, miktar %d", body.ProductID, body.Quantity),
		})

		return c.JSON(fiber.Map{"status": "removed"})
	}
}

// GET /api/basket
func ContentsHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, mgr)
		if err != nil {
			return err
		}

		lines := sess.Contents()
		res := make([]LineResponse, 0, len(lines))
		totalPrice := 0.0
		for _, line := range lines {
			total := line.UnitPrice * float64(line.Quantity)
			totalPrice += total
			res = append(res, LineResponse{
				ProductID: line.ProductID,
				Name:      line.Name,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
				BranchID:  line.BranchID,
				Total:     total,
			})
		}

		return c.JSON(fiber.Map{
			"lines": res,
			"total": totalPrice,
		})
	}
}

// POST /api/basket/release
// Sepeti boşaltır, tüm rezervasyonları iade eder (oturum açık kalır)
func ReleaseAllHandler(mgr *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := sessionFromCtx(c, mgr)
		if err != nil {
			return err
		}

		if err := sess.ReleaseAll(); err != nil {
			var relErr *ReleaseError
			if errors.As(err, &relErr) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":      "Stok iadesi tamamlanamadı",
					"product_id": relErr.ProductID,
					"branch_id":  relErr.BranchID,
					"quantity":   relErr.Quantity,
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Stok iadesi başarısız")
		}

		return c.JSON(fiber.Map{"status": "released"})
	}
}
