package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/promptforge/backend/internal/models"
	"github.com/promptforge/backend/internal/pricing"
	"github.com/promptforge/backend/internal/providers"
)

// AccountStore is the minimal account repository interface for billing.
type AccountStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	DeductCredits(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int) (newBalance int, err error)
}

// LedgerStore appends ledger entries inside a transaction.
type LedgerStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error
}

// UsageStore appends generation audit records inside a transaction.
type UsageStore interface {
	CreateTextTx(ctx context.Context, tx pgx.Tx, g *models.TextGeneration) error
	CreateImageTx(ctx context.Context, tx pgx.Tx, g *models.ImageGeneration) error
}

// Service implements the credit accounting workflow: cost lookup, balance
// check, provider call, then debit + ledger entry + usage record in one
// transaction. The provider is called outside the transaction so no row lock
// is held across outbound I/O.
type Service struct {
	accounts AccountStore
	ledger   LedgerStore
	usage    UsageStore
	text     providers.TextGenerator
	image    providers.ImageGenerator
	pricing  *pricing.Pricing
	log      *slog.Logger
}

func NewService(
	accounts AccountStore,
	ledger LedgerStore,
	usage UsageStore,
	text providers.TextGenerator,
	image providers.ImageGenerator,
	p *pricing.Pricing,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{accounts: accounts, ledger: ledger, usage: usage, text: text, image: image, pricing: p, log: log}
}

// TextResult is the success payload of GenerateText.
type TextResult struct {
	Response         string
	CreditsUsed      int
	RemainingCredits int
}

// ImageResult is the success payload of GenerateImage.
type ImageResult struct {
	ImageURL         string
	CreditsUsed      int
	RemainingCredits int
}

// GenerateText charges the account for one text generation with model.
func (s *Service) GenerateText(ctx context.Context, accountID uuid.UUID, model, prompt string) (*TextResult, error) {
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	cost := s.pricing.TextCost(model)

	if err := s.precheck(ctx, accountID, cost); err != nil {
		return nil, err
	}

	response, err := s.text.Generate(ctx, model, prompt)
	if err != nil {
		return nil, classifyProviderErr(err)
	}

	newBalance, err := s.commitUsage(ctx, accountID, cost,
		fmt.Sprintf("Text generation with %s", model),
		func(tx pgx.Tx) error {
			return s.usage.CreateTextTx(ctx, tx, &models.TextGeneration{
				ID:          uuid.New(),
				AccountID:   accountID,
				Model:       model,
				Prompt:      prompt,
				Response:    response,
				CreditsUsed: cost,
			})
		})
	if err != nil {
		return nil, err
	}

	s.log.Info("text generation charged", "account_id", accountID, "model", model, "credits", cost, "balance", newBalance)
	return &TextResult{Response: response, CreditsUsed: cost, RemainingCredits: newBalance}, nil
}

// GenerateImage charges the account for one image generation.
func (s *Service) GenerateImage(ctx context.Context, accountID uuid.UUID, req providers.ImageRequest) (*ImageResult, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	cost := s.pricing.ImageCost

	if err := s.precheck(ctx, accountID, cost); err != nil {
		return nil, err
	}

	imageURL, err := s.image.GenerateImage(ctx, req)
	if err != nil {
		return nil, classifyProviderErr(err)
	}

	newBalance, err := s.commitUsage(ctx, accountID, cost,
		fmt.Sprintf("Image generation: %s", truncate(req.Prompt, 50)),
		func(tx pgx.Tx) error {
			return s.usage.CreateImageTx(ctx, tx, &models.ImageGeneration{
				ID:          uuid.New(),
				AccountID:   accountID,
				Prompt:      req.Prompt,
				ImageURL:    imageURL,
				Width:       req.Width,
				Height:      req.Height,
				Style:       req.Style,
				CreditsUsed: cost,
			})
		})
	if err != nil {
		return nil, err
	}

	s.log.Info("image generation charged", "account_id", accountID, "credits", cost, "balance", newBalance)
	return &ImageResult{ImageURL: imageURL, CreditsUsed: cost, RemainingCredits: newBalance}, nil
}

// precheck rejects calls the balance obviously cannot cover before spending
// provider capacity. The authoritative check is the conditional debit inside
// the commit transaction.
func (s *Service) precheck(ctx context.Context, accountID uuid.UUID, cost int) error {
	acc, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	if acc.CreditBalance < cost {
		return ErrInsufficientCredits
	}
	return nil
}

// commitUsage performs the debit, the usage ledger entry, and the audit
// record as one transaction, so a fault between the writes cannot leave the
// balance and history disagreeing.
func (s *Service) commitUsage(ctx context.Context, accountID uuid.UUID, cost int, description string, writeRecord func(tx pgx.Tx) error) (int, error) {
	tx, err := s.accounts.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	newBalance, err := s.accounts.DeductCredits(ctx, tx, accountID, cost)
	if err != nil {
		// Zero rows affected: a concurrent charge consumed the balance
		// between the precheck and the debit.
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInsufficientCredits
		}
		return 0, err
	}

	if err := s.ledger.CreateTx(ctx, tx, &models.LedgerEntry{
		ID:          uuid.New(),
		AccountID:   accountID,
		EntryType:   models.LedgerEntryUsage,
		AmountCents: 0,
		Credits:     -cost,
		Description: description,
		Status:      models.LedgerStatusCompleted,
	}); err != nil {
		return 0, err
	}

	if err := writeRecord(tx); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}

func classifyProviderErr(err error) error {
	if errors.Is(err, providers.ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrProvider, err)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
