package order

import (
	"errors"
	"fmt"

	"autoflix-backend/internal/audit"
	"autoflix-backend/internal/basket"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type OrderLineResponse struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	BranchID    uint    `json:"branch_id"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"` // Güncel katalog fiyatından hesaplanır
}

type OrderResponse struct {
	ID        uint                `json:"id"`
	OrderDate string              `json:"order_date"`
	Lines     []OrderLineResponse `json:"lines"`
	Total     float64             `json:"total"`
}

// POST /api/checkout
// Sepeti tek atomik birim halinde kalıcı siparişe çevirir. Ledger'a
// dokunulmaz; rezervasyon checkout ile satışa dönüşür.
func CheckoutHandler(svc *Service, mgr *basket.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, ok := c.Locals("customer_id").(*uint)
		if !ok || customerID == nil {
			return fiber.NewError(fiber.StatusForbidden, "Checkout müşteri girişi gerektirir")
		}

		sid, _ := c.Locals("session_id").(string)
		sess := mgr.Get(sid)
		if sess == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Sepet oturumu sonlanmış, tekrar giriş yapın")
		}

		orderID, err := svc.Commit(*customerID, sess)
		if err != nil {
			if errors.Is(err, ErrEmptyBasket) {
				return fiber.NewError(fiber.StatusBadRequest, "Sepet boş")
			}
			// Transaction tamamen geri alındı, sepet değişmedi; tekrar denenebilir
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş kaydedilemedi, tekrar deneyin")
		}

		_ = audit.WriteLog(audit.LogOptions{
			ActorID:     *customerID,
			EntityType:  "order",
			EntityID:    orderID,
			Action:      models.AuditActionCommit,
			Description: fmt.Sprintf("Checkout tamamlandı: sipariş %d", orderID),
		})

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order_id": orderID})
	}
}

// GET /api/orders
// Müşterinin geçmiş siparişleri. Fiyatlar sipariş kaydında tutulmaz,
// güncel katalogdan hesaplanır.
func ListPastOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, ok := c.Locals("customer_id").(*uint)
		if !ok || customerID == nil {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem müşteri girişi gerektirir")
		}

		var orders []models.Order
		if err := database.DB.
			Preload("Lines.Product").
			Where("customer_id = ?", *customerID).
			Order("order_date DESC").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]OrderResponse, 0, len(orders))
		for _, o := range orders {
			res = append(res, toOrderResponse(o))
		}
		return c.JSON(res)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, ok := c.Locals("customer_id").(*uint)
		if !ok || customerID == nil {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem müşteri girişi gerektirir")
		}

		var o models.Order
		if err := database.DB.
			Preload("Lines.Product").
			First(&o, "id = ? AND customer_id = ?", c.Params("id"), *customerID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(toOrderResponse(o))
	}
}

func toOrderResponse(o models.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	total := 0.0
	for _, line := range o.Lines {
		lineTotal := line.Product.Price * float64(line.Quantity)
		total += lineTotal
		lines = append(lines, OrderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.Product.Name,
			BranchID:    line.BranchID,
			Quantity:    line.Quantity,
			TotalPrice:  lineTotal,
		})
	}
	return OrderResponse{
		ID:        o.ID,
		OrderDate: o.OrderDate.Format("2006-01-02"),
		Lines:     lines,
		Total:     total,
	}
}
