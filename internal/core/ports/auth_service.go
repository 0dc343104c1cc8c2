package ports

import (
	"context"
	"time"

	"github.com/teacherpoli/members-api/internal/core/domain"
)

// PurchaseCheck is the result of verifying an email against the purchase store.
type PurchaseCheck struct {
	CustomerName string
	PurchaseDate time.Time
}

// AuthService exposes the purchase-gated authentication operations.
type AuthService interface {
	// CheckPurchase verifies an active purchase exists for the email.
	CheckPurchase(ctx context.Context, email string) (*PurchaseCheck, error)
	// HasCredential reports whether a user record exists for the email.
	// This is the explicit existence query the login flow uses instead of
	// probing login with a placeholder password.
	HasCredential(ctx context.Context, email string) (bool, error)
	// CreatePassword registers the one-time credential for a purchaser and
	// returns a session token plus the new profile.
	CreatePassword(ctx context.Context, email, password, name string) (string, *domain.Profile, error)
	// Login authenticates an existing credential, re-checking purchase status.
	Login(ctx context.Context, email, password string) (string, *domain.Profile, error)
	// CompleteOnboarding marks the user's onboarding done. Idempotent.
	CompleteOnboarding(ctx context.Context, email string) error
}
