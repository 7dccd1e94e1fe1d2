package models

import "time"

type Product struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:100;not null;unique"`
	CategoryID uint   `gorm:"index;not null"`
	Category   Category
	Price      float64 `gorm:"not null"` // Katalog fiyatı (sepete eklenirken snapshot alınır)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
