package models

import (
	"time"

	"github.com/google/uuid"
)

// Ledger entry_type enums.
const (
	LedgerEntryPurchase = "purchase"
	LedgerEntryUsage    = "usage"
	LedgerEntryRefund   = "refund"
	LedgerEntryGrant    = "grant"
)

// Ledger status enums. pending transitions to completed or failed exactly once.
const (
	LedgerStatusPending   = "pending"
	LedgerStatusCompleted = "completed"
	LedgerStatusFailed    = "failed"
)

// Payment method enums for purchase entries.
const (
	PaymentMethodCard = "card"
	PaymentMethodQR   = "qr"
)

type LedgerEntry struct {
	ID            uuid.UUID `json:"id"`
	AccountID     uuid.UUID `json:"account_id"`
	EntryType     string    `json:"entry_type"`
	AmountCents   int       `json:"amount_cents"`
	Credits       int       `json:"credits"`
	Description   string    `json:"description"`
	PaymentMethod *string   `json:"payment_method,omitempty"`
	PaymentRef    *string   `json:"payment_ref,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
