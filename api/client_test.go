package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_AuthorizationHeader(t *testing.T) {
	tests := []struct {
		name       string
		tokens     TokenSource
		wantHeader string
	}{
		{"token present", StaticToken("abc123"), "Bearer abc123"},
		{"empty token", StaticToken(""), ""},
		{"nil source", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Get("Authorization")
				w.Write([]byte(`[]`))
			}))
			defer server.Close()

			client := NewClient(server.URL, tt.tokens)
			if _, err := client.ListChats(context.Background()); err != nil {
				t.Fatalf("ListChats: %v", err)
			}
			if got != tt.wantHeader {
				t.Errorf("Authorization: got %q, want %q", got, tt.wantHeader)
			}
		})
	}
}

func TestClient_RequestIDHeader(t *testing.T) {
	seen := map[string]bool{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			t.Error("missing X-Request-ID header")
		}
		seen[id] = true
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("tok"))
	for i := 0; i < 3; i++ {
		if _, err := client.ListChats(context.Background()); err != nil {
			t.Fatalf("ListChats: %v", err)
		}
	}
	if len(seen) != 3 {
		t.Errorf("request ids not unique: %d distinct of 3", len(seen))
	}
}

func TestClient_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail": "Could not validate credentials"}`, ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"detail": "Not found"}`, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tt.body, tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL, StaticToken("tok"))
			_, err := client.Me(context.Background())
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("got %v, want sentinel %v", err, tt.sentinel)
			}
		})
	}
}

func TestClient_PlainTextErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("tok"))
	_, err := client.Me(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Errorf("status: got %d", apiErr.Status)
	}
}
