package models

import "time"

type MembershipLevel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:50;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Customer struct {
	ID                uint   `gorm:"primaryKey"`
	FirstName         string `gorm:"size:100;not null"`
	Surname           string `gorm:"size:100;not null"`
	ContactNo         string `gorm:"size:50"`
	Email             string `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash      string `gorm:"size:255;not null"`
	MembershipLevelID uint   `gorm:"index;not null"`
	MembershipLevel   MembershipLevel
	BranchID          uint `gorm:"index;not null"` // Müşterinin bağlı olduğu şube
	Branch            Branch
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
