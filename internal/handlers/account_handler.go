package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/promptforge/backend/internal/middleware"
	"github.com/promptforge/backend/internal/models"
)

// LedgerLister lists ledger entries for an account.
type LedgerLister interface {
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.LedgerEntry, error)
}

// UsageLister lists generation audit records for an account.
type UsageLister interface {
	ListTextByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.TextGeneration, error)
	ListImagesByAccountID(ctx context.Context, accountID uuid.UUID) ([]*models.ImageGeneration, error)
}

// AccountHandler serves the authenticated account's profile and history.
type AccountHandler struct {
	Ledger LedgerLister
	Usage  UsageLister
	Logger *slog.Logger
}

type meResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Credits    int    `json:"credits"`
	IsVerified bool   `json:"is_verified"`
}

// GetMe handles GET /api/v1/account/me.
func (h *AccountHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{
		ID:         acc.ID.String(),
		Name:       acc.Name,
		Email:      acc.Email,
		Credits:    acc.CreditBalance,
		IsVerified: acc.IsVerified,
	})
}

// ListCreditLedger handles GET /api/v1/credit-ledger.
func (h *AccountHandler) ListCreditLedger(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	entries, err := h.Ledger.ListByAccountID(r.Context(), acc.ID)
	if err != nil {
		h.Logger.Error("list ledger", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*models.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListTextGenerations handles GET /api/v1/usage/text.
func (h *AccountHandler) ListTextGenerations(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	records, err := h.Usage.ListTextByAccountID(r.Context(), acc.ID)
	if err != nil {
		h.Logger.Error("list text generations", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*models.TextGeneration{}
	}
	writeJSON(w, http.StatusOK, records)
}

// ListImageGenerations handles GET /api/v1/usage/images.
func (h *AccountHandler) ListImageGenerations(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	records, err := h.Usage.ListImagesByAccountID(r.Context(), acc.ID)
	if err != nil {
		h.Logger.Error("list image generations", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*models.ImageGeneration{}
	}
	writeJSON(w, http.StatusOK, records)
}

// --- shared helpers ---

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
