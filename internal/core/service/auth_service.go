package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/teacherpoli/members-api/internal/core/domain"
	"github.com/teacherpoli/members-api/internal/core/ports"
)

// bcryptCost resists offline brute force at the price of ~250ms per hash.
const bcryptCost = 12

const defaultTokenTTL = 7 * 24 * time.Hour

// AuthService implements the purchase-gated credential flow.
type AuthService struct {
	purchases ports.PurchaseStore
	users     ports.UserStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(purchases ports.PurchaseStore, users ports.UserStore, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &AuthService{purchases: purchases, users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// CheckPurchase verifies that the email belongs to an active purchase.
// Pure read, no side effect.
func (s *AuthService) CheckPurchase(ctx context.Context, email string) (*ports.PurchaseCheck, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrEmailRequired
	}

	purchase, err := s.purchases.Get(ctx, email)
	if err != nil {
		return nil, err
	}
	if !purchase.IsActive() {
		return nil, domain.ErrPurchaseInactive
	}

	return &ports.PurchaseCheck{
		CustomerName: purchase.BuyerName,
		PurchaseDate: purchase.PurchasedAt,
	}, nil
}

// HasCredential reports whether a user record exists for the email.
func (s *AuthService) HasCredential(ctx context.Context, email string) (bool, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return false, domain.ErrEmailRequired
	}
	return s.users.Has(ctx, email)
}

// CreatePassword registers the one-time credential for a purchaser.
// The purchase must exist first; the user record must not.
func (s *AuthService) CreatePassword(ctx context.Context, email, password, name string) (string, *domain.Profile, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrCredentialsRequired
	}

	purchase, err := s.purchases.Get(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if name == "" {
		name = purchase.BuyerName
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", nil, err
	}

	user := &domain.User{
		Email:                  email,
		Name:                   name,
		PasswordHash:           string(hash),
		HasCompletedOnboarding: false,
		CreatedAt:              time.Now().UTC(),
	}

	// Create is atomic per key, so the purchase-check/insert gap cannot
	// produce two credential records for the same email.
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user.Profile(), nil
}

// Login authenticates an existing credential. Purchase status is re-checked
// on every login, so a refunded purchase locks the account even though the
// credential record still exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrCredentialsRequired
	}

	user, err := s.users.Get(ctx, email)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrWrongPassword
	}

	purchase, err := s.purchases.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			return "", nil, domain.ErrPurchaseInactive
		}
		return "", nil, err
	}
	if !purchase.IsActive() {
		return "", nil, domain.ErrPurchaseInactive
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user.Profile(), nil
}

// CompleteOnboarding flips the onboarding flag. Idempotent.
func (s *AuthService) CompleteOnboarding(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.ErrEmailRequired
	}
	return s.users.SetOnboardingCompleted(ctx, email)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": user.Email,
		"name":  user.Name,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
