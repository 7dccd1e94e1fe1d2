package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "super_admin"
	RoleStaff      UserRole = "staff"
)

// User: Personel hesabı (müşteriler ayrı tabloda)
type User struct {
	ID           uint `gorm:"primaryKey"`
	BranchID     *uint
	Branch       *Branch
	FirstName    string   `gorm:"size:100;not null"`
	Surname      string   `gorm:"size:100;not null"`
	ContactNo    string   `gorm:"size:50"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
