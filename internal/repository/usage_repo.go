package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptforge/backend/internal/models"
)

type UsageRepo struct {
	pool *pgxpool.Pool
}

func NewUsageRepo(pool *pgxpool.Pool) *UsageRepo {
	return &UsageRepo{pool: pool}
}

// CreateTextTx appends a text-generation audit record inside the given transaction.
func (r *UsageRepo) CreateTextTx(ctx context.Context, tx pgx.Tx, g *models.TextGeneration) error {
	return tx.QueryRow(ctx, `
		INSERT INTO text_generations (id, account_id, model, prompt, response, credits_used)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, g.ID, g.AccountID, g.Model, g.Prompt, g.Response, g.CreditsUsed).Scan(&g.CreatedAt)
}

// CreateImageTx appends an image-generation audit record inside the given transaction.
func (r *UsageRepo) CreateImageTx(ctx context.Context, tx pgx.Tx, g *models.ImageGeneration) error {
	return tx.QueryRow(ctx, `
		INSERT INTO image_generations (id, account_id, prompt, image_url, width, height, style, credits_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, g.ID, g.AccountID, g.Prompt, g.ImageURL, g.Width, g.Height, g.Style, g.CreditsUsed).Scan(&g.CreatedAt)
}

func (r *UsageRepo) ListTextByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.TextGeneration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, model, prompt, response, credits_used, created_at
		FROM text_generations WHERE account_id = $1 ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.TextGeneration
	for rows.Next() {
		var g models.TextGeneration
		if err := rows.Scan(&g.ID, &g.AccountID, &g.Model, &g.Prompt, &g.Response, &g.CreditsUsed, &g.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}

func (r *UsageRepo) ListImagesByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.ImageGeneration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, account_id, prompt, image_url, width, height, style, credits_used, created_at
		FROM image_generations WHERE account_id = $1 ORDER BY created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.ImageGeneration
	for rows.Next() {
		var g models.ImageGeneration
		if err := rows.Scan(&g.ID, &g.AccountID, &g.Prompt, &g.ImageURL, &g.Width, &g.Height, &g.Style, &g.CreditsUsed, &g.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &g)
	}
	return list, rows.Err()
}
