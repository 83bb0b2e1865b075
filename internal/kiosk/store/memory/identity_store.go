package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"attendkiosk/internal/kiosk/store"
	"attendkiosk/internal/kiosk/types"
)

// IdentityStore is an in-memory identity mapping for tests and dev runs.
type IdentityStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]types.Person
	byEmail map[string]int64
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{
		nextID:  1,
		byID:    make(map[int64]types.Person),
		byEmail: make(map[string]int64),
	}
}

var _ store.IdentityStore = (*IdentityStore)(nil)

func (s *IdentityStore) LookupByEmail(_ context.Context, email string) (types.Person, error) {
	email = normalizeEmail(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return types.Person{}, store.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *IdentityStore) GetByID(_ context.Context, id int64) (types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return types.Person{}, store.ErrNotFound
	}
	return p, nil
}

func (s *IdentityStore) CreatePerson(_ context.Context, p types.Person) (types.Person, error) {
	email := normalizeEmail(p.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[email]; exists {
		return types.Person{}, store.ErrDuplicatePerson
	}
	p.ID = s.nextID
	s.nextID++
	s.byID[p.ID] = p
	s.byEmail[email] = p.ID
	return p, nil
}

func (s *IdentityStore) ListPeople(_ context.Context) ([]types.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Person, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
