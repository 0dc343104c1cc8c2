package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/teacherpoli/members-api/internal/core/domain"
	"github.com/teacherpoli/members-api/internal/core/ports"
)

// Event names that carry a completed purchase. Everything else is
// acknowledged and dropped for forward compatibility with unknown types.
const (
	EventPurchaseComplete = "PURCHASE_COMPLETE"
	EventPurchaseApproved = "PURCHASE_APPROVED"
)

type webhookService struct {
	purchases ports.PurchaseStore
	log       zerolog.Logger
}

// NewWebhookService returns a WebhookService backed by the purchase store.
func NewWebhookService(purchases ports.PurchaseStore, log zerolog.Logger) ports.WebhookService {
	return &webhookService{purchases: purchases, log: log}
}

// Ingest upserts a purchase record for completed-purchase events. A later
// event for the same email fully replaces the earlier record, no merge.
func (s *webhookService) Ingest(ctx context.Context, in ports.PurchaseEventInput) (bool, error) {
	if in.Event != EventPurchaseComplete && in.Event != EventPurchaseApproved {
		s.log.Debug().Str("event", in.Event).Msg("webhook event ignored")
		return false, nil
	}

	email := domain.NormalizeEmail(in.BuyerEmail)
	if email == "" {
		return false, domain.ErrEmailRequired
	}

	purchase := &domain.Purchase{
		Email:         email,
		BuyerName:     in.BuyerName,
		TransactionID: in.TransactionID,
		ProductID:     in.ProductID,
		Status:        domain.PurchaseActive,
		PurchasedAt:   time.Now().UTC(),
		RawPayload:    in.RawPayload,
	}

	if err := s.purchases.Put(ctx, purchase); err != nil {
		return false, fmt.Errorf("ingest purchase: %w", err)
	}

	s.log.Info().
		Str("email", email).
		Str("transaction", in.TransactionID).
		Str("product", in.ProductID).
		Msg("purchase registered")

	return true, nil
}
