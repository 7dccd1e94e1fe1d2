package auth

import (
	"errors"
	"strings"

	"autoflix-backend/internal/basket"
	"autoflix-backend/internal/config"
	"autoflix-backend/internal/database"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

type RegisterSuperAdminRequest struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CustomerSignupRequest struct {
	FirstName         string `json:"first_name"`
	Surname           string `json:"surname"`
	ContactNo         string `json:"contact_no"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	MembershipLevelID uint   `json:"membership_level_id"`
	BranchID          uint   `json:"branch_id"`
}

func RegisterSuperAdminHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterSuperAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.FirstName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, email ve şifre zorunlu")
		}

		// Zaten super admin varsa ikinciyi engelle
		var count int64
		database.DB.Model(&models.User{}).
			Where("role = ?", models.RoleSuperAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir super admin var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			FirstName:    body.FirstName,
			Surname:      body.Surname,
			Email:        body.Email,
			PasswordHash: string(hash),
			Role:         models.RoleSuperAdmin,
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		})
	}
}

// POST /api/auth/login (personel)
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var user models.User
		if err := database.DB.First(&user, "email = ?", body.Email).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		token, err := GenerateStaffToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token üretilemedi")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user": fiber.Map{
				"id":         user.ID,
				"first_name": user.FirstName,
				"surname":    user.Surname,
				"email":      user.Email,
				"role":       user.Role,
				"branch_id":  user.BranchID,
			},
		})
	}
}

// POST /api/auth/customer/signup
func CustomerSignupHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerSignupRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		if body.Email == "" || body.Password == "" || body.FirstName == "" || body.Surname == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, soyisim, email ve şifre zorunlu")
		}
		if body.BranchID == 0 || body.MembershipLevelID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "branch_id ve membership_level_id zorunlu")
		}

		var branch models.Branch
		if err := database.DB.First(&branch, "id = ?", body.BranchID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Şube bulunamadı")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		customer := models.Customer{
			FirstName:         body.FirstName,
			Surname:           body.Surname,
			ContactNo:         body.ContactNo,
			Email:             body.Email,
			PasswordHash:      string(hash),
			MembershipLevelID: body.MembershipLevelID,
			BranchID:          body.BranchID,
		}

		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    customer.ID,
			"email": customer.Email,
		})
	}
}

// POST /api/auth/customer/login
// Başarılı girişte sepet oturumu açılır; oturum kimliği token'da taşınır.
func CustomerLoginHandler(cfg *config.Config, mgr *basket.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))

		var customer models.Customer
		if err := database.DB.First(&customer, "email = ?", body.Email).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Email veya şifre hatalı")
		}

		sess := mgr.Create(&customer.ID, customer.BranchID)

		token, err := GenerateCustomerToken(cfg.JWTSecret, &customer, sess.ID)
		if err != nil {
			// Oturum açık kalmasın; token olmadan hiçbir rezervasyon yapılamaz
			_ = mgr.End(sess.ID)
			return fiber.NewError(fiber.StatusInternalServerError, "Token üretilemedi")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"customer": fiber.Map{
				"id":         customer.ID,
				"first_name": customer.FirstName,
				"surname":    customer.Surname,
				"email":      customer.Email,
				"branch_id":  customer.BranchID,
			},
		})
	}
}

// POST /api/auth/logout
// Session lifecycle hook: oturumun tüm açık rezervasyonlarını ledger'a iade
// eder. Manager.End idempotent olduğu için tekrarlanan logout çifte iade
// yapmaz. Kısmi hata durumunda bırakılamayan satır raporlanır.
func LogoutHandler(mgr *basket.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := SessionID(c)
		if sid == "" {
			return c.JSON(fiber.Map{"status": "ok"}) // Personel token'ı, sepet yok
		}

		if err := mgr.End(sid); err != nil {
			var relErr *basket.ReleaseError
			if errors.As(err, &relErr) {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":      "Stok iadesi tamamlanamadı, kalan satırlar sepette tutuluyor",
					"product_id": relErr.ProductID,
					"branch_id":  relErr.BranchID,
					"quantity":   relErr.Quantity,
				})
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Çıkış sırasında hata oluştu")
		}

		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if customerID, ok := CustomerID(c); ok {
			var customer models.Customer
			if err := database.DB.First(&customer, "id = ?", customerID).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Müşteri bulunamadı")
			}
			return c.JSON(fiber.Map{
				"customer_id": customer.ID,
				"first_name":  customer.FirstName,
				"surname":     customer.Surname,
				"email":       customer.Email,
				"branch_id":   customer.BranchID,
			})
		}

		userIDVal, ok := c.Locals(CtxUserIDKey).(*uint)
		if !ok || userIDVal == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kimlik bilgisi alınamadı")
		}
		var user models.User
		if err := database.DB.First(&user, "id = ?", *userIDVal).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
		}
		return c.JSON(fiber.Map{
			"user_id":    user.ID,
			"first_name": user.FirstName,
			"surname":    user.Surname,
			"email":      user.Email,
			"role":       user.Role,
			"branch_id":  user.BranchID,
		})
	}
}
