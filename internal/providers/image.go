package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageRequest carries the generation parameters for one image.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Style  string `json:"style"`
}

// ImageGenerator returns a URL for a generated image. Implementations are
// swappable: the stub serves environments without a real image API key.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// StubImageGenerator returns a fixed stock image sized to the request. It
// stands in for an unintegrated image API and keeps the billing path testable.
type StubImageGenerator struct{}

var _ ImageGenerator = StubImageGenerator{}

func (StubImageGenerator) GenerateImage(_ context.Context, req ImageRequest) (string, error) {
	return fmt.Sprintf("https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=%d&h=%d&q=80&fit=crop", req.Width, req.Height), nil
}

const defaultImageTimeout = 60 * time.Second

type imageAPIResponse struct {
	ImageURL string `json:"image_url"`
}

// HTTPImageGenerator calls a third-party image-generation API with a bearer key.
type HTTPImageGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPImageGenerator(endpoint, apiKey string) *HTTPImageGenerator {
	return &HTTPImageGenerator{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultImageTimeout},
	}
}

var _ ImageGenerator = (*HTTPImageGenerator)(nil)

func (g *HTTPImageGenerator) GenerateImage(ctx context.Context, imgReq ImageRequest) (string, error) {
	body, err := json.Marshal(imgReq)
	if err != nil {
		return "", fmt.Errorf("marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("image API returned status %d: %s", resp.StatusCode, string(b))
	}

	var out imageAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if out.ImageURL == "" {
		return "", fmt.Errorf("image API returned empty image_url")
	}
	return out.ImageURL, nil
}
