package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/promptforge/backend/internal/billing"
	"github.com/promptforge/backend/internal/middleware"
	"github.com/promptforge/backend/internal/models"
	"github.com/promptforge/backend/internal/providers"
)

// --- GenerateService mock ---

type mockBilling struct {
	textResult  *billing.TextResult
	imageResult *billing.ImageResult
	err         error

	gotModel  string
	gotPrompt string
	gotImage  providers.ImageRequest
}

func (m *mockBilling) GenerateText(_ context.Context, _ uuid.UUID, model, prompt string) (*billing.TextResult, error) {
	m.gotModel = model
	m.gotPrompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return m.textResult, nil
}

func (m *mockBilling) GenerateImage(_ context.Context, _ uuid.UUID, req providers.ImageRequest) (*billing.ImageResult, error) {
	m.gotImage = req
	if m.err != nil {
		return nil, m.err
	}
	return m.imageResult, nil
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	acc := &models.Account{ID: uuid.New(), CreditBalance: 10}
	return req.WithContext(middleware.WithAccount(req.Context(), acc))
}

func TestGenerateText_HandlerSuccess(t *testing.T) {
	mb := &mockBilling{textResult: &billing.TextResult{Response: "out", CreditsUsed: 2, RemainingCredits: 1}}
	h := &GenerateHandler{Billing: mb, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	h.GenerateText(rec, authedRequest(http.MethodPost, "/api/v1/generate/text", `{"model":"codellama","prompt":"hi"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	var resp generateTextResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Response != "out" || resp.CreditsUsed != 2 || resp.RemainingCredits != 1 {
		t.Errorf("response: %+v", resp)
	}
	if mb.gotModel != "codellama" || mb.gotPrompt != "hi" {
		t.Errorf("service received model=%q prompt=%q", mb.gotModel, mb.gotPrompt)
	}
}

func TestGenerateText_DefaultsModel(t *testing.T) {
	mb := &mockBilling{textResult: &billing.TextResult{Response: "x", CreditsUsed: 1, RemainingCredits: 9}}
	h := &GenerateHandler{Billing: mb, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	h.GenerateText(rec, authedRequest(http.MethodPost, "/api/v1/generate/text", `{"prompt":"hi"}`))

	if mb.gotModel != "llama2" {
		t.Errorf("default model: got %q, want llama2", mb.gotModel)
	}
}

func TestGenerateText_Unauthenticated(t *testing.T) {
	h := &GenerateHandler{Billing: &mockBilling{}, Logger: slog.Default()}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/text", strings.NewReader(`{"prompt":"hi"}`))
	h.GenerateText(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestGenerateText_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", billing.ErrInvalidInput, http.StatusBadRequest},
		{"not found", billing.ErrAccountNotFound, http.StatusNotFound},
		{"insufficient credits", billing.ErrInsufficientCredits, http.StatusPaymentRequired},
		{"provider unavailable", fmt.Errorf("%w: refused", billing.ErrProviderUnavailable), http.StatusServiceUnavailable},
		{"provider error", fmt.Errorf("%w: bad model", billing.ErrProvider), http.StatusInternalServerError},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &GenerateHandler{Billing: &mockBilling{err: tc.err}, Logger: slog.Default()}
			rec := httptest.NewRecorder()
			h.GenerateText(rec, authedRequest(http.MethodPost, "/api/v1/generate/text", `{"prompt":"hi"}`))

			if rec.Code != tc.want {
				t.Errorf("status: got %d, want %d", rec.Code, tc.want)
			}
			var body errorBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Error == "" {
				t.Error("error body must carry a message")
			}
		})
	}
}

func TestGenerateImage_HandlerDefaults(t *testing.T) {
	mb := &mockBilling{imageResult: &billing.ImageResult{ImageURL: "u", CreditsUsed: 5, RemainingCredits: 5}}
	h := &GenerateHandler{Billing: mb, Logger: slog.Default()}

	rec := httptest.NewRecorder()
	h.GenerateImage(rec, authedRequest(http.MethodPost, "/api/v1/generate/image", `{"prompt":"a cat"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}
	if mb.gotImage.Width != 512 || mb.gotImage.Height != 512 || mb.gotImage.Style != "realistic" {
		t.Errorf("defaults not applied: %+v", mb.gotImage)
	}
}

func TestGenerateImage_InvalidJSON(t *testing.T) {
	h := &GenerateHandler{Billing: &mockBilling{}, Logger: slog.Default()}
	rec := httptest.NewRecorder()
	h.GenerateImage(rec, authedRequest(http.MethodPost, "/api/v1/generate/image", `{not json`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
