package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptforge/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new account with the initial credit grant and the grant
// ledger entry in one transaction, so the balance invariant holds from the
// first row.
func (r *Repository) Create(ctx context.Context, a *models.Account) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (id, email, name, password_hash, credit_balance, is_verified, verification_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, a.ID, a.Email, a.Name, a.PasswordHash, a.CreditBalance, a.IsVerified, a.VerificationToken).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}

	if a.CreditBalance > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO credit_ledger (id, account_id, entry_type, amount_cents, credits, description, status)
			VALUES ($1, $2, 'grant', 0, $3, 'Welcome credit grant', 'completed')
		`, uuid.New(), a.ID, a.CreditBalance)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// GetByEmail returns the account for login. Returns nil, nil when not found.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, credit_balance, is_verified, verification_token, created_at, updated_at
		FROM accounts WHERE email = $1
	`, email).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreditBalance, &a.IsVerified, &a.VerificationToken, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
