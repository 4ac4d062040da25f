package settlement

import (
	"context"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// SettlePurchaseArgs is the payload of a scheduled purchase-settlement job.
// The job row lives in Postgres, so a pending purchase survives a restart.
type SettlePurchaseArgs struct {
	LedgerEntryID uuid.UUID `json:"ledger_entry_id"`
	AccountID     uuid.UUID `json:"account_id"`
	Credits       int       `json:"credits"`
}

func (SettlePurchaseArgs) Kind() string { return "settle_purchase" }

// PurchaseSettler is the contract the worker needs to confirm a purchase.
type PurchaseSettler interface {
	SettlePurchase(ctx context.Context, entryID, accountID uuid.UUID, credits int) error
}

type SettlePurchaseWorker struct {
	river.WorkerDefaults[SettlePurchaseArgs]
	settler PurchaseSettler
}

func NewSettlePurchaseWorker(settler PurchaseSettler) *SettlePurchaseWorker {
	return &SettlePurchaseWorker{settler: settler}
}

func (w *SettlePurchaseWorker) Work(ctx context.Context, job *river.Job[SettlePurchaseArgs]) error {
	args := job.Args
	return w.settler.SettlePurchase(ctx, args.LedgerEntryID, args.AccountID, args.Credits)
}
