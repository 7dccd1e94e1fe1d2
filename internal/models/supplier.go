package models

import "time"

type Supplier struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SupplierProduct: Hangi tedarikçi hangi ürünü sağlıyor
type SupplierProduct struct {
	ID         uint `gorm:"primaryKey"`
	SupplierID uint `gorm:"index;not null;uniqueIndex:idx_supplier_product"`
	Supplier   Supplier
	ProductID  uint `gorm:"index;not null;uniqueIndex:idx_supplier_product"`
	Product    Product
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BranchOrder: Şubenin tedarikçiye verdiği sipariş.
// Stoka giriş ledger'ın adjust işlemiyle yapılır (sepet akışından bağımsız).
type BranchOrder struct {
	ID           uint `gorm:"primaryKey"`
	BranchID     uint `gorm:"index;not null"`
	Branch       Branch
	SupplierID   uint `gorm:"index;not null"`
	Supplier     Supplier
	ProductID    uint `gorm:"index;not null"`
	Product      Product
	Quantity     int       `gorm:"not null"`
	OrderDate    time.Time `gorm:"index;not null"`
	DeliveryDate *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
