package ledger

import (
	"errors"
	"fmt"

	"autoflix-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInsufficientStock: İstenen miktar mevcut stoktan fazla
	ErrInsufficientStock = errors.New("yetersiz stok")
	// ErrNotFound: Şube/ürün çifti için stok kaydı yok
	ErrNotFound = errors.New("stok kaydı bulunamadı")
	// ErrInvalidQuantity: Miktar pozitif olmalı
	ErrInvalidQuantity = errors.New("miktar geçersiz")
)

// Ledger: Şube bazlı stok sayaçlarının tek yetkilisi.
// Tüm mutasyonlar tek bir conditional UPDATE ile yapılır; "önce oku sonra yaz"
// deseni eşzamanlı rezervasyonlarda oversell'e yol açtığı için yasak.
type Ledger struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{DB: db}
}

// Reserve: Stoktan qty düşer. Kontrol ve düşüş tek atomik adımda yapılır:
// UPDATE ... SET quantity = quantity - ? WHERE ... AND quantity >= ?
// Etkilenen satır yoksa ya stok yetersizdir ya da kayıt hiç yoktur.
func (l *Ledger) Reserve(branchID, productID uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	res := l.DB.Model(&models.BranchStock{}).
		Where("branch_id = ? AND product_id = ? AND quantity >= ?", branchID, productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return fmt.Errorf("stok düşülemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return l.missReason(branchID, productID)
	}
	return nil
}

// Release: Rezervasyonu stoka geri ekler. Satır varsa her zaman başarılıdır;
// en-fazla-bir-kez çağırmak çağıranın sorumluluğu.
func (l *Ledger) Release(branchID, productID uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	res := l.DB.Model(&models.BranchStock{}).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("stok geri eklenemedi: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Adjust: Sepet dışı akışlar için imzalı delta (tedarikçi siparişi girişi,
// sipariş iptali vs). Pozitif delta satır yoksa satırı oluşturur
// (ON CONFLICT DO UPDATE); negatif delta rezervasyonla aynı non-negatif
// korumasından geçer.
func (l *Ledger) Adjust(branchID, productID uint, delta int) error {
	if delta == 0 {
		return nil
	}
	if delta < 0 {
		res := l.DB.Model(&models.BranchStock{}).
			Where("branch_id = ? AND product_id = ? AND quantity >= ?", branchID, productID, -delta).
			UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
		if res.Error != nil {
			return fmt.Errorf("stok düzeltilemedi: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return l.missReason(branchID, productID)
		}
		return nil
	}

	entry := models.BranchStock{BranchID: branchID, ProductID: productID, Quantity: delta}
	err := l.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "branch_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("branch_stocks.quantity + ?", delta),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("stok düzeltilemedi: %w", err)
	}
	return nil
}

// Query: Anlık stok okuması. Sadece gösterim amaçlıdır; sonucuna bakıp
// ayrı bir Reserve çağırmak time-of-check/time-of-use hatasıdır.
func (l *Ledger) Query(branchID, productID uint) (int, error) {
	var entry models.BranchStock
	err := l.DB.Where("branch_id = ? AND product_id = ?", branchID, productID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("stok okunamadı: %w", err)
	}
	return entry.Quantity, nil
}

// missReason: Conditional update hiçbir satıra dokunmadıysa nedenini ayırt et
func (l *Ledger) missReason(branchID, productID uint) error {
	var count int64
	if err := l.DB.Model(&models.BranchStock{}).
		Where("branch_id = ? AND product_id = ?", branchID, productID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("stok kontrol edilemedi: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrInsufficientStock
}
