package models

import "time"

// BranchStock: Şube bazlı stok sayacı (ledger'ın tek kaynağı)
// Quantity sadece ledger'ın atomik reserve/release/adjust işlemleriyle değişir,
// asla oku-sonra-yaz şeklinde güncellenmez.
type BranchStock struct {
	ID        uint `gorm:"primaryKey"`
	BranchID  uint `gorm:"index;not null;uniqueIndex:idx_branch_product"`
	Branch    Branch
	ProductID uint `gorm:"index;not null;uniqueIndex:idx_branch_product"`
	Product   Product
	Quantity  int `gorm:"not null;default:0"` // Negatif olamaz
	CreatedAt time.Time
	UpdatedAt time.Time
}
