package order

import (
	"errors"
	"fmt"
	"time"

	"autoflix-backend/internal/basket"
	"autoflix-backend/internal/models"

	"gorm.io/gorm"
)

// ErrEmptyBasket: Boş sepetle checkout denendi
var ErrEmptyBasket = errors.New("sepet boş")

// Service: Sepet içeriğini kalıcı sipariş kayıtlarına çevirir.
// "Hold"un "satış"a dönüştüğü tek yer burasıdır.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Commit: Sipariş başlığı + her sepet satırı için bir sipariş kalemini tek
// transaction içinde yazar. Herhangi bir kalem yazılamazsa tamamı geri alınır
// ve sepet bellekte aynen kalır; aynı commit güvenle tekrar denenebilir.
// Başarıda sepet temizlenir ama Ledger'a DOKUNULMAZ: stok rezervasyon anında
// düşülmüştü, burada release çağırmak stoku çifte iade ederdi.
func (s *Service) Commit(customerID uint, sess *basket.Session) (uint, error) {
	lines := sess.Contents()
	if len(lines) == 0 {
		return 0, ErrEmptyBasket
	}

	ord := models.Order{
		CustomerID: customerID,
		OrderDate:  time.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return err
		}
		for _, line := range lines {
			ol := models.OrderLine{
				OrderID:   ord.ID,
				ProductID: line.ProductID,
				BranchID:  line.BranchID,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&ol).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("sipariş kaydedilemedi: %w", err)
	}

	sess.Clear()
	return ord.ID, nil
}
