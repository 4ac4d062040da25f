package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/promptforge/backend/internal/middleware"
	"github.com/promptforge/backend/internal/purchase"
)

// PurchaseService is the subset of the purchase service the handler needs.
type PurchaseService interface {
	InitiatePurchase(ctx context.Context, accountID uuid.UUID, packageID, paymentMethod string) (*purchase.PendingPurchase, error)
}

// PurchaseHandler serves the credit top-up endpoint.
type PurchaseHandler struct {
	Purchases PurchaseService
	Logger    *slog.Logger
}

type purchaseRequest struct {
	Package       string `json:"package"`
	PaymentMethod string `json:"payment_method"`
}

type purchasePackage struct {
	Type       string `json:"type"`
	Credits    int    `json:"credits"`
	PriceCents int    `json:"price_cents"`
}

type purchaseResponse struct {
	Message       string          `json:"message"`
	TransactionID string          `json:"transaction_id"`
	Status        string          `json:"status"`
	Package       purchasePackage `json:"package"`
}

// InitiatePurchase handles POST /api/v1/credits/purchase. It returns the
// pending transaction immediately; settlement runs out of band.
func (h *PurchaseHandler) InitiatePurchase(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	pending, err := h.Purchases.InitiatePurchase(r.Context(), acc.ID, req.Package, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, purchase.ErrUnknownPackage):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid package"})
		case errors.Is(err, purchase.ErrInvalidPaymentMethod):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid payment method"})
		default:
			h.Logger.Error("initiate purchase failed", "error", err)
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusAccepted, purchaseResponse{
		Message:       "Payment initiated",
		TransactionID: pending.TransactionID.String(),
		Status:        pending.Status,
		Package: purchasePackage{
			Type:       pending.PackageID,
			Credits:    pending.Credits,
			PriceCents: pending.PriceCents,
		},
	})
}
