package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/promptforge/backend/internal/billing"
	"github.com/promptforge/backend/internal/middleware"
	"github.com/promptforge/backend/internal/providers"
)

// GenerateService is the subset of the billing service the handler needs.
type GenerateService interface {
	GenerateText(ctx context.Context, accountID uuid.UUID, model, prompt string) (*billing.TextResult, error)
	GenerateImage(ctx context.Context, accountID uuid.UUID, req providers.ImageRequest) (*billing.ImageResult, error)
}

// GenerateHandler serves the metered generation endpoints.
type GenerateHandler struct {
	Billing GenerateService
	Logger  *slog.Logger
}

type generateTextRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateTextResponse struct {
	Response         string `json:"response"`
	CreditsUsed      int    `json:"credits_used"`
	RemainingCredits int    `json:"remaining_credits"`
}

// GenerateText handles POST /api/v1/generate/text.
func (h *GenerateHandler) GenerateText(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req generateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Model == "" {
		req.Model = "llama2"
	}

	result, err := h.Billing.GenerateText(r.Context(), acc.ID, req.Model, req.Prompt)
	if err != nil {
		h.writeBillingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateTextResponse{
		Response:         result.Response,
		CreditsUsed:      result.CreditsUsed,
		RemainingCredits: result.RemainingCredits,
	})
}

type generateImageRequest struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Style  string `json:"style"`
}

type generateImageResponse struct {
	ImageURL         string `json:"image_url"`
	CreditsUsed      int    `json:"credits_used"`
	RemainingCredits int    `json:"remaining_credits"`
}

// GenerateImage handles POST /api/v1/generate/image.
func (h *GenerateHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	acc := middleware.AccountFromCtx(r.Context())
	if acc == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}
	if req.Width <= 0 {
		req.Width = 512
	}
	if req.Height <= 0 {
		req.Height = 512
	}
	if req.Style == "" {
		req.Style = "realistic"
	}

	result, err := h.Billing.GenerateImage(r.Context(), acc.ID, providers.ImageRequest{
		Prompt: req.Prompt,
		Width:  req.Width,
		Height: req.Height,
		Style:  req.Style,
	})
	if err != nil {
		h.writeBillingError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateImageResponse{
		ImageURL:         result.ImageURL,
		CreditsUsed:      result.CreditsUsed,
		RemainingCredits: result.RemainingCredits,
	})
}

// writeBillingError maps the billing error taxonomy to HTTP statuses.
func (h *GenerateHandler) writeBillingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billing.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "prompt is required"})
	case errors.Is(err, billing.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "account not found"})
	case errors.Is(err, billing.ErrInsufficientCredits):
		writeJSON(w, http.StatusPaymentRequired, errorBody{Error: "insufficient credits"})
	case errors.Is(err, billing.ErrProviderUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "generation service is not available, please try again later"})
	case errors.Is(err, billing.ErrProvider):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "failed to generate, please try again"})
	default:
		h.Logger.Error("generate failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}
