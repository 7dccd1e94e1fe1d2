package catalog

import (
	"strconv"
	"strings"

	"autoflix-backend/internal/database"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	CategoryID uint    `json:"category_id"`
	Price      float64 `json:"price"`
}

type AvailableProductResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	CategoryID uint    `json:"category_id"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
}

type CreateProductRequest struct {
	Name       string  `json:"name"`
	CategoryID uint    `json:"category_id"`
	Price      float64 `json:"price"`
}

type UpdateProductRequest struct {
	Name       *string  `json:"name"`
	CategoryID *uint    `json:"category_id"`
	Price      *float64 `json:"price"`
}

// GET /api/products (tüm authenticated kullanıcılar görebilir)
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, ProductResponse{
				ID:         p.ID,
				Name:       p.Name,
				CategoryID: p.CategoryID,
				Price:      p.Price,
			})
		}
		return c.JSON(res)
	}
}

// GET /api/products/available?branch_id=&search=&category_id=&min_price=&max_price=
// Şubede stoğu olan ürünler (stok > 0). Buradaki stok değeri sadece gösterim
// içindir; sepete ekleme her zaman ledger'ın atomik reserve'inden geçer.
func ListAvailableProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID, err := strconv.Atoi(c.Query("branch_id"))
		if err != nil || branchID <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id zorunlu")
		}

		dbq := database.DB.Table("products").
			Select("products.id, products.name, products.category_id, products.price, branch_stocks.quantity AS stock").
			Joins("JOIN branch_stocks ON branch_stocks.product_id = products.id").
			Where("branch_stocks.branch_id = ? AND branch_stocks.quantity > 0", branchID)

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			dbq = dbq.Where("products.name LIKE ?", "%"+search+"%")
		}
		if v := c.Query("category_id"); v != "" {
			catID, err := strconv.Atoi(v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "category_id geçersiz")
			}
			dbq = dbq.Where("products.category_id = ?", catID)
		}
		if v := c.Query("min_price"); v != "" {
			minPrice, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "min_price geçersiz")
			}
			dbq = dbq.Where("products.price >= ?", minPrice)
		}
		if v := c.Query("max_price"); v != "" {
			maxPrice, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "max_price geçersiz")
			}
			dbq = dbq.Where("products.price <= ?", maxPrice)
		}

		var rows []AvailableProductResponse
		if err := dbq.Order("products.name asc").Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}
		return c.JSON(rows)
	}
}

// POST /api/admin/products (sadece super_admin)
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || body.CategoryID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve category_id zorunlu")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price negatif olamaz")
		}

		var category models.Category
		if err := database.DB.First(&category, "id = ?", body.CategoryID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
		}

		product := models.Product{
			Name:       body.Name,
			CategoryID: body.CategoryID,
			Price:      body.Price,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(ProductResponse{
			ID:         product.ID,
			Name:       product.Name,
			CategoryID: product.CategoryID,
			Price:      product.Price,
		})
	}
}

// PUT /api/admin/products/:id (sadece super_admin)
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			product.Name = name
		}
		if body.CategoryID != nil {
			var category models.Category
			if err := database.DB.First(&category, "id = ?", *body.CategoryID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Kategori bulunamadı")
			}
			product.CategoryID = *body.CategoryID
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price negatif olamaz")
			}
			product.Price = *body.Price
		}

		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		return c.JSON(ProductResponse{
			ID:         product.ID,
			Name:       product.Name,
			CategoryID: product.CategoryID,
			Price:      product.Price,
		})
	}
}

// DELETE /api/admin/products/:id (sadece super_admin)
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := database.DB.Delete(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
