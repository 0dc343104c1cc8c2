package ports

import (
	"context"

	"github.com/teacherpoli/members-api/internal/core/domain"
)

// PurchaseStore persists purchase records keyed by lower-cased email.
// Put is a wholesale upsert: a later event for the same email fully replaces
// the earlier record.
type PurchaseStore interface {
	Get(ctx context.Context, email string) (*domain.Purchase, error)
	Put(ctx context.Context, purchase *domain.Purchase) error
}

// UserStore persists user credential records keyed by lower-cased email.
// Create must be atomic per key: it fails with domain.ErrUserExists when a
// record is already present, so registration stays one-shot even with
// multiple server processes sharing the backend.
type UserStore interface {
	Get(ctx context.Context, email string) (*domain.User, error)
	Has(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) error
	SetOnboardingCompleted(ctx context.Context, email string) error
}
