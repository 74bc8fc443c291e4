package account

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"accountd.org/internal/ids"
)

// MemoryStore implements Store with in-process concurrency safety. It backs
// tests and DSN-less development runs; Postgres is the durable option.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	order    []string          // insertion order of ids
	emails   map[string]string // email -> id
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*Account),
		emails:   make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[acc.Email]; taken {
		return fmt.Errorf("%w: %s", ErrEmailTaken, acc.Email)
	}
	if acc.ID == "" {
		acc.ID = ids.New()
	}
	cp := *acc
	s.accounts[cp.ID] = &cp
	s.order = append(s.order, cp.ID)
	s.emails[cp.Email] = cp.ID
	return nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s.accounts[id]
	return &cp, nil
}

func (s *MemoryStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.emails[email]
	return ok, nil
}

func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*Account, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*Account, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.accounts[id]
		all = append(all, &cp)
	}
	if opts.Sort != "" {
		sort.SliceStable(all, func(i, j int) bool {
			less := compareBySortKey(all[i], all[j], opts.Sort)
			if opts.Desc {
				return !less
			}
			return less
		})
	}
	total := len(all)

	if opts.Offset >= len(all) {
		return nil, total, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, total, nil
}

func (s *MemoryStore) Update(ctx context.Context, acc *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.accounts[acc.ID]
	if !ok {
		return ErrNotFound
	}
	if acc.Email != current.Email {
		if owner, taken := s.emails[acc.Email]; taken && owner != acc.ID {
			return fmt.Errorf("%w: %s", ErrEmailTaken, acc.Email)
		}
		delete(s.emails, current.Email)
		s.emails[acc.Email] = acc.ID
	}
	cp := *acc
	s.accounts[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.emails, acc.Email)
	delete(s.accounts, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func compareBySortKey(a, b *Account, key SortKey) bool {
	switch key {
	case SortEmail:
		return strings.Compare(a.Email, b.Email) < 0
	case SortFirstName:
		return strings.Compare(a.FirstName, b.FirstName) < 0
	case SortLastName:
		return strings.Compare(a.LastName, b.LastName) < 0
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}
