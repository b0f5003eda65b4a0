package journal

import "sync"

// Store guarda journals por usuario. Los journals son efímeros: se pierden en
// un reinicio, y nada de lo pendiente toca el ledger hasta el submit.
type Store struct {
	mu     sync.Mutex
	byUser map[int64]*Journal
}

// NewStore crea el almacén de journals.
func NewStore() *Store {
	return &Store{byUser: make(map[int64]*Journal)}
}

// ForUser devuelve el journal del usuario, creándolo si no existe.
func (s *Store) ForUser(userID int64) *Journal {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byUser[userID]
	if !ok {
		j = New()
		s.byUser[userID] = j
	}
	return j
}
