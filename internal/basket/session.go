package basket

import (
	"errors"
	"fmt"
	"sync"

	"autoflix-backend/internal/config"
	"autoflix-backend/internal/ledger"
)

var (
	// ErrInvalidQuantity: Miktar pozitif değil veya sepettekinden fazla
	ErrInvalidQuantity = errors.New("miktar geçersiz")
	// ErrNotInBasket: Ürün sepette yok
	ErrNotInBasket = errors.New("ürün sepette yok")
	// ErrBranchMismatch: Ürün sepette başka bir şubeden rezerve edilmiş.
	// Satır şube başına tek rezervasyon taşır; farklı şubeden ekleme iade
	// sırasında yanlış şubeye yazılırdı.
	ErrBranchMismatch = errors.New("ürün sepette farklı şubeden rezerve edilmiş")
)

// ReleaseError: releaseAll sırasında bırakılamayan satırı tanımlar.
// Önceki satırların rezervasyonları ledger'a geri yansımıştır; bu satırın
// rezervasyonu hâlâ açıktır ve işlem burada durur (fail-fast).
type ReleaseError struct {
	ProductID uint
	BranchID  uint
	Quantity  int
	Err       error
}

func (e *ReleaseError) Error() string {
	return fmt.Sprintf("stok geri bırakılamadı (ürün %d, şube %d, miktar %d): %v",
		e.ProductID, e.BranchID, e.Quantity, e.Err)
}

func (e *ReleaseError) Unwrap() error { return e.Err }

// Snapshot: Sepete eklenme anında katalogdan alınan ürün görüntüsü
type Snapshot struct {
	Name      string
	UnitPrice float64
}

// Catalog: Snapshot sağlayıcısı (katalog okuması dış bağımlılıktır)
type Catalog interface {
	Snapshot(productID uint) (Snapshot, error)
}

// Line: Sepet satırı. Sadece sahibi olan Session üzerinden değişir;
// hiçbir zaman persist edilmez.
type Line struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"` // Rezervasyon anındaki fiyat
	Quantity  int     `json:"quantity"`
	BranchID  uint    `json:"branch_id"`
}

// Session: Oturuma bağlı, bellekte tutulan sepet. Login'de oluşturulur,
// logout veya başarılı checkout ile temizlenir. Ledger'ın invariant'larına
// asla doğrudan dokunmaz; her stok hareketi Ledger üzerinden geçer.
type Session struct {
	ID         string
	CustomerID *uint // Personel akışında nil
	BranchID   uint  // Müşterinin şubesi (satırlar farklı şube taşıyabilir)

	ledger *ledger.Ledger
	cat    Catalog
	retain config.ReleaseRetainPolicy

	mu    sync.Mutex
	lines map[uint]*Line
	order []uint // Ekleme sırası (contents bu sırayla döner)
}

// AddItem: Önce katalogdan snapshot alınır, sonra Ledger.Reserve çağrılır.
// Reserve başarısızsa sepet değişmeden kalır. Aynı ürün aynı şubeden tekrar
// eklenirse miktarlar toplanır, ilk snapshot korunur; farklı şubeden ekleme
// ErrBranchMismatch ile reddedilir.
func (s *Session) AddItem(productID uint, qty int, branchID uint) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := s.lines[productID]
	if existing != nil && existing.BranchID != branchID {
		return ErrBranchMismatch
	}

	var snap Snapshot
	if existing == nil {
		var err error
		snap, err = s.cat.Snapshot(productID)
		if err != nil {
			return err
		}
	}

	if err := s.ledger.Reserve(branchID, productID, qty); err != nil {
		return err
	}

	if existing != nil {
		existing.Quantity += qty
		return nil
	}
	s.lines[productID] = &Line{
		ProductID: productID,
		Name:      snap.Name,
		UnitPrice: snap.UnitPrice,
		Quantity:  qty,
		BranchID:  branchID,
	}
	s.order = append(s.order, productID)
	return nil
}

// RemoveItem: Sepetteki miktarı azaltır veya satırı siler ve satırda kayıtlı
// şube/miktar çifti için Ledger.Release çağırır.
func (s *Session) RemoveItem(productID uint, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := s.lines[productID]
	if line == nil {
		return ErrNotInBasket
	}
	if qty > line.Quantity {
		return ErrInvalidQuantity
	}

	if err := s.ledger.Release(line.BranchID, productID, qty); err != nil {
		return err
	}

	line.Quantity -= qty
	if line.Quantity == 0 {
		s.removeLine(productID)
	}
	return nil
}

// ReleaseAll: Her satır için Ledger.Release çağırır, sonra sepeti boşaltır.
// Satır N bırakılamazsa işlem durur: 1..N-1 ledger'a doğru yansımıştır,
// N ReleaseError ile raporlanır. Sepette kalan satırlar politikaya bağlıdır:
// RetainFailed sadece bırakılamayanları tutar, RetainAll orijinal seti korur
// (RetainAll'da tekrar releaseAll çağırmak çifte iade yapar; kalan satırlar
// manuel düzeltme içindir).
func (s *Session) ReleaseAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pid := range append([]uint(nil), s.order...) {
		line := s.lines[pid]
		if line == nil {
			continue
		}
		if err := s.ledger.Release(line.BranchID, pid, line.Quantity); err != nil {
			return &ReleaseError{
				ProductID: pid,
				BranchID:  line.BranchID,
				Quantity:  line.Quantity,
				Err:       err,
			}
		}
		if s.retain == config.RetainFailed {
			s.removeLine(pid)
		}
	}

	s.clearLocked()
	return nil
}

// Contents: Gösterim için salt okunur kopya, ekleme sırasına göre
func (s *Session) Contents() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, 0, len(s.order))
	for _, pid := range s.order {
		if line := s.lines[pid]; line != nil {
			out = append(out, *line)
		}
	}
	return out
}

// Clear: Sepeti bellekte boşaltır, ledger'a DOKUNMAZ.
// Sadece başarılı commit sonrası çağrılır; rezervasyonlar artık satıştır.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.lines = make(map[uint]*Line)
	s.order = nil
}

func (s *Session) removeLine(productID uint) {
	delete(s.lines, productID)
	for i, pid := range s.order {
		if pid == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}
