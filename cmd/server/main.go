package main

import (
	"log"
	"strings"

	"autoflix-backend/internal/admin"
	"autoflix-backend/internal/audit"
	"autoflix-backend/internal/auth"
	"autoflix-backend/internal/basket"
	"autoflix-backend/internal/catalog"
	"autoflix-backend/internal/config"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/inventory"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"
	"autoflix-backend/internal/order"
	"autoflix-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	stockLedger := ledger.New(database.DB)
	catalogStore := catalog.NewStore(database.DB)
	baskets := basket.NewManager(stockLedger, catalogStore, cfg.ReleaseRetain)
	orders := order.NewService(database.DB)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-super-admin", auth.RegisterSuperAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/auth/customer/signup", auth.CustomerSignupHandler(cfg))
	api.Post("/auth/customer/login", auth.CustomerLoginHandler(cfg, baskets))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Post("/auth/logout", auth.LogoutHandler(baskets))

	// Super admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleSuperAdmin))

	// Şube yönetimi
	adminRoutes.Post("/branches", admin.CreateBranchHandler())
	adminRoutes.Get("/branches", admin.ListBranchesHandler())
	adminRoutes.Get("/branches/:id", admin.GetBranchHandler())
	adminRoutes.Put("/branches/:id", admin.UpdateBranchHandler())
	adminRoutes.Delete("/branches/:id", admin.DeleteBranchHandler())

	// Personel yönetimi
	adminRoutes.Post("/staff", admin.CreateStaffHandler())
	adminRoutes.Get("/staff", admin.ListStaffHandler())
	adminRoutes.Put("/staff/:id", admin.UpdateStaffHandler())
	adminRoutes.Delete("/staff/:id", admin.DeleteStaffHandler())

	// Müşteri yönetimi
	adminRoutes.Get("/customers", admin.ListCustomersHandler())
	adminRoutes.Put("/customers/:id", admin.UpdateCustomerHandler())
	adminRoutes.Delete("/customers/:id", admin.DeleteCustomerHandler())

	// Ürün yönetimi
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler())

	// Manuel stok düzeltme
	adminRoutes.Post("/stocks/adjust", inventory.AdjustStockHandler(stockLedger))

	// Personel (ve süper admin) route'ları
	staffRoutes := protected.Group("/staff-panel")
	staffRoutes.Use(auth.RequireRole(models.RoleSuperAdmin, models.RoleStaff))

	// Stok görüntüleme
	staffRoutes.Get("/stocks", inventory.ListStockHandler())
	staffRoutes.Get("/stocks/:branchId/:productId", inventory.GetStockHandler(stockLedger))

	// Tedarikçi siparişleri
	staffRoutes.Get("/suppliers", supplier.ListSuppliersHandler())
	staffRoutes.Get("/suppliers/:id/products", supplier.ListSupplierProductsHandler())
	staffRoutes.Post("/branch-orders", supplier.CreateBranchOrderHandler())
	staffRoutes.Get("/branch-orders", supplier.ListBranchOrdersHandler())
	staffRoutes.Delete("/branch-orders/:id", supplier.DeleteBranchOrderHandler())

	// Audit logs
	staffRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Ortak (auth gerektiren) route'lar

	// Ürün listesi
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/available", catalog.ListAvailableProductsHandler())
	protected.Get("/categories", catalog.ListCategoriesHandler())

	// Müşteri route'ları (sepet & sipariş)
	customerRoutes := protected.Group("")
	customerRoutes.Use(auth.RequireCustomer())

	customerRoutes.Post("/basket/items", basket.AddItemHandler(baskets))
	customerRoutes.Delete("/basket/items", basket.RemoveItemHandler(baskets))
	customerRoutes.Get("/basket", basket.ContentsHandler(baskets))
	customerRoutes.Delete("/basket", basket.ReleaseAllHandler(baskets))

	customerRoutes.Post("/orders", order.CheckoutHandler(orders, baskets))
	customerRoutes.Get("/orders", order.ListPastOrdersHandler())
	customerRoutes.Get("/orders/:id", order.GetOrderHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
