package basket

import (
	"sync"

	"autoflix-backend/internal/config"
	"autoflix-backend/internal/ledger"

	"github.com/google/uuid"
)

// Manager: Aktif sepet oturumlarının kaydı. Oturum login'de oluşturulur,
// End ile tam olarak bir kez sonlandırılır (session lifecycle hook).
type Manager struct {
	ledger *ledger.Ledger
	cat    Catalog
	retain config.ReleaseRetainPolicy

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(l *ledger.Ledger, cat Catalog, retain config.ReleaseRetainPolicy) *Manager {
	return &Manager{
		ledger:   l,
		cat:      cat,
		retain:   retain,
		sessions: make(map[string]*Session),
	}
}

// Create: Yeni sepet oturumu açar. customerID personel akışında nil olabilir.
func (m *Manager) Create(customerID *uint, branchID uint) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		BranchID:   branchID,
		ledger:     m.ledger,
		cat:        m.cat,
		retain:     m.retain,
		lines:      make(map[uint]*Line),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get: Oturumu döndürür, yoksa nil
func (m *Manager) Get(sessionID string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[sessionID]
}

// End: Oturumu sonlandırır ve tüm açık rezervasyonları ledger'a iade eder.
// Oturum kayıttan atomik olarak çıkarıldığı için hook iki kez çalışamaz:
// ikinci çağrı oturumu bulamaz ve hiçbir şey iade etmez. ReleaseAll kısmi
// hata verirse oturum kayda geri takılır ki kalan rezervasyonlar kaybolmasın.
func (m *Manager) End(sessionID string) error {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	if ok {
		delete(m.sessions, sessionID)
	}
	m.mu.Unlock()

	if !ok {
		return nil // Zaten sonlandırılmış
	}

	if err := s.ReleaseAll(); err != nil {
		m.mu.Lock()
		m.sessions[sessionID] = s
		m.mu.Unlock()
		return err
	}
	return nil
}
