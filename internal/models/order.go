package models

import "time"

// Order: Checkout sonrası oluşan kalıcı sipariş başlığı.
// Ledger'a dokunmaz; stok zaten rezervasyon anında düşülmüştür.
type Order struct {
	ID         uint `gorm:"primaryKey"`
	CustomerID uint `gorm:"index;not null"`
	Customer   Customer
	OrderDate  time.Time `gorm:"index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lines []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLine: Sipariş kalemi. Fiyat kopyalanmaz, katalogdan okunur.
// BranchID satır bazında tutulur; bir sipariş birden fazla şubeye yayılabilir.
type OrderLine struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	BranchID  uint `gorm:"index;not null"`
	Quantity  int  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
