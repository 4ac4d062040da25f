package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		var req ollamaGenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "llama2" || req.Prompt != "hello" || req.Stream {
			t.Errorf("request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "world"})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	out, err := client.Generate(context.Background(), "llama2", "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "world" {
		t.Errorf("response: got %q, want %q", out, "world")
	}
}

func TestOllamaClient_ConnectionRefused(t *testing.T) {
	// Start and immediately close a server so the port refuses connections.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewOllamaClient(url)
	_, err := client.Generate(context.Background(), "llama2", "hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got: %v", err)
	}
}

func TestOllamaClient_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL)
	_, err := client.Generate(context.Background(), "llama2", "hello")
	if err == nil {
		t.Fatal("expected an error for a 500 response")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("a served error response is not a connection-level failure")
	}
}

func TestStubImageGenerator_UsesRequestedSize(t *testing.T) {
	url, err := StubImageGenerator{}.GenerateImage(context.Background(), ImageRequest{
		Prompt: "anything", Width: 640, Height: 480, Style: "sketch",
	})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	want := "https://images.unsplash.com/photo-1579546929518-9e396f3cc809?w=640&h=480&q=80&fit=crop"
	if url != want {
		t.Errorf("url: got %q, want %q", url, want)
	}
}

func TestHTTPImageGenerator_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key123" {
			t.Errorf("authorization: got %q", got)
		}
		var req ImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Prompt != "a fox" || req.Width != 512 {
			t.Errorf("request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(imageAPIResponse{ImageURL: "https://img.example/fox.png"})
	}))
	defer srv.Close()

	gen := NewHTTPImageGenerator(srv.URL, "key123")
	url, err := gen.GenerateImage(context.Background(), ImageRequest{Prompt: "a fox", Width: 512, Height: 512})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if url != "https://img.example/fox.png" {
		t.Errorf("url: got %q", url)
	}
}

func TestHTTPImageGenerator_EmptyURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(imageAPIResponse{})
	}))
	defer srv.Close()

	gen := NewHTTPImageGenerator(srv.URL, "")
	_, err := gen.GenerateImage(context.Background(), ImageRequest{Prompt: "x", Width: 1, Height: 1})
	if err == nil {
		t.Fatal("expected an error for an empty image_url")
	}
}
