package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/promptforge/backend/internal/models"
	"github.com/promptforge/backend/internal/purchase"
)

type mockPurchases struct {
	pending *purchase.PendingPurchase
	err     error

	gotPackage string
	gotMethod  string
}

func (m *mockPurchases) InitiatePurchase(_ context.Context, _ uuid.UUID, packageID, paymentMethod string) (*purchase.PendingPurchase, error) {
	m.gotPackage = packageID
	m.gotMethod = paymentMethod
	if m.err != nil {
		return nil, m.err
	}
	return m.pending, nil
}

func TestInitiatePurchase_HandlerSuccess(t *testing.T) {
	txID := uuid.New()
	mp := &mockPurchases{pending: &purchase.PendingPurchase{
		TransactionID: txID,
		PackageID:     "starter",
		Credits:       100,
		PriceCents:    500,
		Status:        models.LedgerStatusPending,
	}}
	h := &PurchaseHandler{Purchases: mp, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	h.InitiatePurchase(rec, authedRequest(http.MethodPost, "/api/v1/credits/purchase", `{"package":"starter","payment_method":"card"}`))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status: got %d, want 202 (body: %s)", rec.Code, rec.Body.String())
	}
	var resp purchaseResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TransactionID != txID.String() || resp.Status != "pending" {
		t.Errorf("response: %+v", resp)
	}
	if resp.Package.Credits != 100 || resp.Package.PriceCents != 500 || resp.Package.Type != "starter" {
		t.Errorf("package echo: %+v", resp.Package)
	}
	if mp.gotPackage != "starter" || mp.gotMethod != "card" {
		t.Errorf("service received package=%q method=%q", mp.gotPackage, mp.gotMethod)
	}
}

func TestInitiatePurchase_HandlerErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown package", purchase.ErrUnknownPackage, http.StatusBadRequest},
		{"invalid payment method", purchase.ErrInvalidPaymentMethod, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &PurchaseHandler{Purchases: &mockPurchases{err: tc.err}, Logger: slog.Default()}
			rec := httptest.NewRecorder()
			h.InitiatePurchase(rec, authedRequest(http.MethodPost, "/api/v1/credits/purchase", `{"package":"x","payment_method":"card"}`))

			if rec.Code != tc.want {
				t.Errorf("status: got %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestInitiatePurchase_Unauthenticated(t *testing.T) {
	h := &PurchaseHandler{Purchases: &mockPurchases{}, Logger: slog.Default()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/credits/purchase", nil)
	h.InitiatePurchase(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}
