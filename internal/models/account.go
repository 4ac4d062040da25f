package models

import (
	"time"

	"github.com/google/uuid"
)

// InitialCreditGrant is the number of free credits a new account starts with.
const InitialCreditGrant = 10

type Account struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"-"`
	CreditBalance     int       `json:"credit_balance"`
	IsVerified        bool      `json:"is_verified"`
	VerificationToken *string   `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
