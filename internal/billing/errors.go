package billing

import (
	"errors"

	"github.com/promptforge/backend/internal/providers"
)

// Error taxonomy for metered actions. Handlers map these to HTTP statuses;
// nothing here is retried automatically.
var (
	// ErrInvalidInput is returned for missing or empty prompts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAccountNotFound is returned when the account id does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientCredits is returned when the balance cannot cover the
	// action cost. The balance is never mutated on this path.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrProviderUnavailable marks connection-level provider failures. A
	// caller could retry these; the service itself does not.
	ErrProviderUnavailable = providers.ErrUnavailable

	// ErrProvider marks semantic provider-side failures (bad status, bad
	// payload) that retrying would not help.
	ErrProvider = errors.New("provider error")
)
