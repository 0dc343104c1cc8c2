// Package redis implements the purchase and user stores on Redis. SetNX gives
// Create the per-key compare-and-set semantics a multi-process deployment
// needs to keep registration one-shot.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teacherpoli/members-api/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

const (
	purchaseKeyPrefix = "purchase:"
	userKeyPrefix     = "user:"
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
// A default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// PurchaseStore persists purchase records as JSON values under purchase:<email>.
type PurchaseStore struct {
	client *redis.Client
}

func NewPurchaseStore(client *redis.Client) *PurchaseStore {
	return &PurchaseStore{client: client}
}

func (s *PurchaseStore) Get(ctx context.Context, email string) (*domain.Purchase, error) {
	raw, err := s.client.Get(ctx, purchaseKeyPrefix+domain.NormalizeEmail(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	var p domain.Purchase
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode purchase: %w", err)
	}
	return &p, nil
}

func (s *PurchaseStore) Put(ctx context.Context, purchase *domain.Purchase) error {
	raw, err := json.Marshal(purchase)
	if err != nil {
		return fmt.Errorf("encode purchase: %w", err)
	}
	key := purchaseKeyPrefix + domain.NormalizeEmail(purchase.Email)
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("put purchase: %w", err)
	}
	return nil
}

// UserStore persists user credential records as JSON values under user:<email>.
type UserStore struct {
	client *redis.Client
}

func NewUserStore(client *redis.Client) *UserStore {
	return &UserStore{client: client}
}

func (s *UserStore) Get(ctx context.Context, email string) (*domain.User, error) {
	raw, err := s.client.Get(ctx, userKeyPrefix+domain.NormalizeEmail(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) Has(ctx context.Context, email string) (bool, error) {
	n, err := s.client.Exists(ctx, userKeyPrefix+domain.NormalizeEmail(email)).Result()
	if err != nil {
		return false, fmt.Errorf("user exists: %w", err)
	}
	return n > 0, nil
}

// Create relies on SET NX so only the first caller for an email wins.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	key := userKeyPrefix + domain.NormalizeEmail(user.Email)
	ok, err := s.client.SetNX(ctx, key, raw, 0).Result()
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if !ok {
		return domain.ErrUserExists
	}
	return nil
}

func (s *UserStore) SetOnboardingCompleted(ctx context.Context, email string) error {
	u, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	if u.HasCompletedOnboarding {
		return nil
	}
	u.HasCompletedOnboarding = true

	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	key := userKeyPrefix + domain.NormalizeEmail(email)
	// Plain SET is safe here: the flag only ever moves false → true.
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}
