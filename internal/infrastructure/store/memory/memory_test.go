package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teacherpoli/members-api/internal/core/domain"
)

func TestPurchaseStore_PutGet(t *testing.T) {
	s := NewPurchaseStore()
	ctx := context.Background()

	if _, err := s.Get(ctx, "ana@example.com"); !errors.Is(err, domain.ErrPurchaseNotFound) {
		t.Fatalf("expected ErrPurchaseNotFound, got %v", err)
	}

	p := &domain.Purchase{
		Email:       "Ana@Example.com",
		BuyerName:   "Ana",
		Status:      domain.PurchaseActive,
		PurchasedAt: time.Now().UTC(),
	}
	if err := s.Put(ctx, p); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get(ctx, "ANA@example.com")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.BuyerName != "Ana" {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Upsert replaces wholesale.
	p2 := &domain.Purchase{Email: "ana@example.com", BuyerName: "Ana Maria", Status: domain.PurchaseActive}
	_ = s.Put(ctx, p2)
	got, _ = s.Get(ctx, "ana@example.com")
	if got.BuyerName != "Ana Maria" {
		t.Fatalf("expected replacement, got %+v", got)
	}
}

func TestPurchaseStore_GetReturnsCopy(t *testing.T) {
	s := NewPurchaseStore()
	ctx := context.Background()
	_ = s.Put(ctx, &domain.Purchase{Email: "ana@example.com", BuyerName: "Ana", Status: domain.PurchaseActive})

	got, _ := s.Get(ctx, "ana@example.com")
	got.BuyerName = "mutated"

	again, _ := s.Get(ctx, "ana@example.com")
	if again.BuyerName != "Ana" {
		t.Fatalf("caller mutation must not leak into the store")
	}
}

func TestUserStore_CreateIsOneShot(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	u := &domain.User{Email: "ana@example.com", Name: "Ana", PasswordHash: "h"}
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Create(ctx, &domain.User{Email: "ANA@example.com"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	ok, err := s.Has(ctx, "Ana@Example.com")
	if err != nil || !ok {
		t.Fatalf("expected Has to find the user, got ok=%v err=%v", ok, err)
	}
}

func TestUserStore_SetOnboardingCompleted(t *testing.T) {
	s := NewUserStore()
	ctx := context.Background()

	if err := s.SetOnboardingCompleted(ctx, "ghost@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	_ = s.Create(ctx, &domain.User{Email: "ana@example.com"})
	if err := s.SetOnboardingCompleted(ctx, "ana@example.com"); err != nil {
		t.Fatalf("SetOnboardingCompleted failed: %v", err)
	}
	if err := s.SetOnboardingCompleted(ctx, "ana@example.com"); err != nil {
		t.Fatalf("second SetOnboardingCompleted failed: %v", err)
	}

	u, _ := s.Get(ctx, "ana@example.com")
	if !u.HasCompletedOnboarding {
		t.Fatalf("expected onboarding flag true")
	}
}
