package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptforge/backend/internal/models"
)

type LedgerRepo struct {
	pool *pgxpool.Pool
}

func NewLedgerRepo(pool *pgxpool.Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// CreateTx inserts a ledger entry inside the given transaction.
func (r *LedgerRepo) CreateTx(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error {
	return tx.QueryRow(ctx, `
		INSERT INTO credit_ledger (id, account_id, entry_type, amount_cents, credits, description, payment_method, payment_ref, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`, e.ID, e.AccountID, e.EntryType, e.AmountCents, e.Credits, e.Description, e.PaymentMethod, e.PaymentRef, e.Status).Scan(&e.CreatedAt)
}

func (r *LedgerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := r.pool.QueryRow(ctx, `
		SELECT id, account_id, entry_type, amount_cents, credits, description, payment_method, payment_ref, status, created_at
		FROM credit_ledger WHERE id = $1
	`, id).Scan(&e.ID, &e.AccountID, &e.EntryType, &e.AmountCents, &e.Credits, &e.Description, &e.PaymentMethod, &e.PaymentRef, &e.Status, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CompletePendingTx transitions a pending entry to completed inside tx.
// Returns false when the entry was not pending, so a retried settlement
// cannot credit the account twice.
func (r *LedgerRepo) CompletePendingTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE credit_ledger SET status = 'completed' WHERE id = $1 AND status = 'pending'
	`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// FailPending transitions a pending entry to failed. No-op if already settled.
func (r *LedgerRepo) FailPending(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE credit_ledger SET status = 'failed' WHERE id = $1 AND status = 'pending'
	`, id)
	return err
}

func (r *LedgerRepo) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, entry_type, amount_cents, credits, description, payment_method, payment_ref, status, created_at
		FROM credit_ledger WHERE account_id = $1 ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.EntryType, &e.AmountCents, &e.Credits, &e.Description, &e.PaymentMethod, &e.PaymentRef, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
