package models

import "time"

type Branch struct {
	ID        uint   `gorm:"primaryKey"`
	Location  string `gorm:"size:100;not null;unique"`
	Phone     string `gorm:"size:50"` // Opsiyonel telefon
	CreatedAt time.Time
	UpdatedAt time.Time

	Users []User
}
