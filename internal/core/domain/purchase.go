package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// PurchaseStatus represents the standing of a purchase with the payment platform.
type PurchaseStatus string

const (
	// PurchaseActive is the only status webhook ingestion ever writes today.
	// Other values are reserved for refund/chargeback handling; the inactive
	// branches in check-purchase and login are the extension point for them.
	PurchaseActive PurchaseStatus = "active"
)

// Purchase is the stored evidence that an email completed a payment event.
// It gates credential creation and is re-checked on every login.
type Purchase struct {
	Email         string          `json:"email" bson:"_id"`
	BuyerName     string          `json:"buyer_name" bson:"buyer_name"`
	TransactionID string          `json:"transaction_id" bson:"transaction_id"`
	ProductID     string          `json:"product_id" bson:"product_id"`
	Status        PurchaseStatus  `json:"status" bson:"status"`
	PurchasedAt   time.Time       `json:"purchased_at" bson:"purchased_at"`
	RawPayload    json.RawMessage `json:"raw_payload,omitempty" bson:"raw_payload,omitempty"` // retained for audit only
}

// IsActive reports whether the purchase authorizes access.
func (p *Purchase) IsActive() bool {
	return p.Status == PurchaseActive
}

// NormalizeEmail lower-cases and trims an email so every store keys it the
// same way. Applied at every boundary before lookup or insert.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
