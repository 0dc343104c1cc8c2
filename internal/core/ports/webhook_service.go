package ports

import "context"

// PurchaseEventInput is the payload of a payment-platform webhook event.
type PurchaseEventInput struct {
	Event         string
	BuyerEmail    string
	BuyerName     string
	TransactionID string
	ProductID     string
	RawPayload    []byte
}

// WebhookService ingests payment-platform events.
type WebhookService interface {
	// Ingest upserts a purchase record for completed-purchase events and
	// ignores every other event name. It reports whether the event produced
	// a state change.
	Ingest(ctx context.Context, in PurchaseEventInput) (bool, error)
}
