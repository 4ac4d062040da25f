package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/promptforge/backend/internal/models"
	"github.com/promptforge/backend/internal/pricing"
	"github.com/promptforge/backend/internal/settlement"
)

// ErrUnknownPackage is returned for a package id outside the catalog.
var ErrUnknownPackage = errors.New("unknown package")

// ErrInvalidPaymentMethod is returned for a payment method outside {card, qr}.
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// DefaultSettlementDelay simulates payment-processor confirmation latency.
const DefaultSettlementDelay = 2 * time.Second

// AccountStore is the minimal account repository interface for purchases.
type AccountStore interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	AddCredits(ctx context.Context, tx pgx.Tx, id uuid.UUID, amount int) (newBalance int, err error)
}

// LedgerStore is the minimal ledger repository interface for purchases.
type LedgerStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error
	CompletePendingTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}

// InsertSettlePurchaseTxFunc schedules a settlement job within the given
// transaction. Provided by main as a closure over river.Client.InsertTx, so
// the pending ledger entry and its settlement job commit or roll back together.
type InsertSettlePurchaseTxFunc func(ctx context.Context, tx pgx.Tx, args settlement.SettlePurchaseArgs, runAt time.Time) error

// Service implements the purchase/top-up workflow. Settlement runs as a
// scheduled job rather than an in-process timer, so the pending→completed
// transition survives a restart.
type Service struct {
	accounts     AccountStore
	ledger       LedgerStore
	pricing      *pricing.Pricing
	insertSettle InsertSettlePurchaseTxFunc
	delay        time.Duration
	log          *slog.Logger
}

func NewService(
	accounts AccountStore,
	ledger LedgerStore,
	p *pricing.Pricing,
	insertSettle InsertSettlePurchaseTxFunc,
	delay time.Duration,
	log *slog.Logger,
) *Service {
	if delay <= 0 {
		delay = DefaultSettlementDelay
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{accounts: accounts, ledger: ledger, pricing: p, insertSettle: insertSettle, delay: delay, log: log}
}

// PendingPurchase is returned by InitiatePurchase before settlement happens.
type PendingPurchase struct {
	TransactionID uuid.UUID
	PackageID     string
	Credits       int
	PriceCents    int
	Status        string
}

// InitiatePurchase creates a pending purchase ledger entry and schedules its
// settlement. It returns immediately; credits arrive when the job runs.
func (s *Service) InitiatePurchase(ctx context.Context, accountID uuid.UUID, packageID, paymentMethod string) (*PendingPurchase, error) {
	pkg, ok := s.pricing.PackageByID(packageID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, packageID)
	}
	if paymentMethod != models.PaymentMethodCard && paymentMethod != models.PaymentMethodQR {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, paymentMethod)
	}

	entry := &models.LedgerEntry{
		ID:            uuid.New(),
		AccountID:     accountID,
		EntryType:     models.LedgerEntryPurchase,
		AmountCents:   pkg.PriceCents,
		Credits:       pkg.Credits,
		Description:   fmt.Sprintf("Credit purchase - %s package", packageID),
		PaymentMethod: &paymentMethod,
		Status:        models.LedgerStatusPending,
	}

	tx, err := s.accounts.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := s.ledger.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}
	if err := s.insertSettle(ctx, tx, settlement.SettlePurchaseArgs{
		LedgerEntryID: entry.ID,
		AccountID:     accountID,
		Credits:       pkg.Credits,
	}, time.Now().Add(s.delay)); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.log.Info("purchase initiated", "account_id", accountID, "package", packageID, "transaction_id", entry.ID)
	return &PendingPurchase{
		TransactionID: entry.ID,
		PackageID:     packageID,
		Credits:       pkg.Credits,
		PriceCents:    pkg.PriceCents,
		Status:        models.LedgerStatusPending,
	}, nil
}

// SettlePurchase implements settlement.PurchaseSettler. It marks the entry
// completed and credits the account in one transaction. A retried or
// duplicate job finds the entry already settled and does nothing, so the
// account can never be credited twice for one purchase.
func (s *Service) SettlePurchase(ctx context.Context, entryID, accountID uuid.UUID, credits int) error {
	tx, err := s.accounts.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	completed, err := s.ledger.CompletePendingTx(ctx, tx, entryID)
	if err != nil {
		return err
	}
	if !completed {
		s.log.Warn("settlement skipped, entry not pending", "transaction_id", entryID)
		return nil
	}

	newBalance, err := s.accounts.AddCredits(ctx, tx, accountID, credits)
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.log.Info("purchase settled", "account_id", accountID, "transaction_id", entryID, "credits", credits, "balance", newBalance)
	return nil
}
