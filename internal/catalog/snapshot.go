package catalog

import (
	"errors"

	"autoflix-backend/internal/basket"
	"autoflix-backend/internal/ledger"
	"autoflix-backend/internal/models"

	"gorm.io/gorm"
)

// Store: Sepetin rezervasyon anında aldığı isim/fiyat snapshot'ını sağlar.
// Katalog salt okunur bir dış bağımlılıktır; stok bilgisi burada yoktur.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Snapshot(productID uint) (basket.Snapshot, error) {
	var p models.Product
	err := s.DB.First(&p, "id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return basket.Snapshot{}, ledger.ErrNotFound
	}
	if err != nil {
		return basket.Snapshot{}, err
	}
	return basket.Snapshot{Name: p.Name, UnitPrice: p.Price}, nil
}
