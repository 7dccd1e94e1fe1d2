package auth

import (
	"time"

	"autoflix-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type JWTCustomClaims struct {
	UserID     *uint           `json:"user_id,omitempty"`     // Personel hesabı
	CustomerID *uint           `json:"customer_id,omitempty"` // Müşteri hesabı
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role,omitempty"`
	BranchID   *uint           `json:"branch_id"`
	SessionID  string          `json:"session_id,omitempty"` // Sepet oturumu
	jwt.RegisteredClaims
}

func GenerateStaffToken(secret string, user *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID:   &user.ID,
		Email:    user.Email,
		Role:     user.Role,
		BranchID: user.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // 1 gün
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateCustomerToken: Müşteri girişinde sepet oturumu da açıldığı için
// token oturum kimliğini taşır; logout bu kimlikle lifecycle hook'u tetikler.
func GenerateCustomerToken(secret string, customer *models.Customer, sessionID string) (string, error) {
	branchID := customer.BranchID
	claims := &JWTCustomClaims{
		CustomerID: &customer.ID,
		Email:      customer.Email,
		BranchID:   &branchID,
		SessionID:  sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // 1 gün
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
