package auth

import (
	"fmt"
	"strings"

	"autoflix-backend/internal/config"
	"autoflix-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey     = "user_id"
	CtxCustomerIDKey = "customer_id"
	CtxUserRoleKey   = "user_role"
	CtxBranchIDKey   = "branch_id"
	CtxSessionIDKey  = "session_id"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("geçersiz imzalama yöntemi")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token çözümlenemedi")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxCustomerIDKey, claims.CustomerID)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxBranchIDKey, claims.BranchID)
		c.Locals(CtxSessionIDKey, claims.SessionID)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}

// RequireCustomer: Sepet ve checkout uçları müşteri token'ı ister
func RequireCustomer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		customerID, ok := c.Locals(CtxCustomerIDKey).(*uint)
		if !ok || customerID == nil {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem müşteri girişi gerektirir")
		}
		return c.Next()
	}
}

// CustomerID: Middleware'in locals'a koyduğu müşteri kimliğini okur
func CustomerID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(CtxCustomerIDKey).(*uint)
	if !ok || id == nil {
		return 0, false
	}
	return *id, true
}

// SessionID: Token'daki sepet oturumu kimliğini okur
func SessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(CtxSessionIDKey).(string)
	return sid
}
