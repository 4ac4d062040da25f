package models

import (
	"time"

	"github.com/google/uuid"
)

// TextGeneration is the audit record for one metered text-generation call.
// Written only when the provider succeeds, in the same transaction as the debit.
type TextGeneration struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Model       string    `json:"model"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	CreditsUsed int       `json:"credits_used"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImageGeneration is the audit record for one metered image-generation call.
type ImageGeneration struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Prompt      string    `json:"prompt"`
	ImageURL    string    `json:"image_url"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Style       string    `json:"style"`
	CreditsUsed int       `json:"credits_used"`
	CreatedAt   time.Time `json:"created_at"`
}
