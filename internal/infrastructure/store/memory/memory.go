// Package memory provides the default in-process store backend. Nothing
// survives a restart; deployments needing persistence or multiple server
// processes should select the redis or mongo backend instead.
package memory

import (
	"context"
	"sync"

	"github.com/teacherpoli/members-api/internal/core/domain"
)

// PurchaseStore keeps purchase records in a map keyed by lower-cased email.
type PurchaseStore struct {
	mu        sync.RWMutex
	purchases map[string]domain.Purchase
}

func NewPurchaseStore() *PurchaseStore {
	return &PurchaseStore{purchases: make(map[string]domain.Purchase)}
}

func (s *PurchaseStore) Get(_ context.Context, email string) (*domain.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.purchases[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrPurchaseNotFound
	}
	return &p, nil
}

func (s *PurchaseStore) Put(_ context.Context, purchase *domain.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purchases[domain.NormalizeEmail(purchase.Email)] = *purchase
	return nil
}

// UserStore keeps user credential records in a map keyed by lower-cased email.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]domain.User)}
}

func (s *UserStore) Get(_ context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) Has(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[domain.NormalizeEmail(email)]
	return ok, nil
}

// Create inserts the record only if the key is absent, under the write lock,
// so registration stays one-shot.
func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeEmail(user.Email)
	if _, exists := s.users[key]; exists {
		return domain.ErrUserExists
	}
	s.users[key] = *user
	return nil
}

func (s *UserStore) SetOnboardingCompleted(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.NormalizeEmail(email)
	u, ok := s.users[key]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.HasCompletedOnboarding = true
	s.users[key] = u
	return nil
}
