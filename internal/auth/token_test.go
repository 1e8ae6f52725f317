package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/midiaops/painel/internal/errors"
)

func TestNewClientCredentials_MissingFields(t *testing.T) {
	tests := []struct {
		name                          string
		tenant, client, secret, scope string
	}{
		{"no tenant", "", "c", "s", "scope"},
		{"no client", "t", "", "s", "scope"},
		{"no secret", "t", "c", "", "scope"},
		{"no scope", "t", "c", "s", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClientCredentials(tt.tenant, tt.client, tt.secret, tt.scope); err == nil {
				t.Error("expected error for missing credential field")
			}
		})
	}
}

func TestClientCredentials_Token(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++

		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/tenant-1/oauth2/v2.0/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "client-1" {
			t.Errorf("client_id = %q", got)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	provider, err := NewClientCredentials("tenant-1", "client-1", "secret", "scope",
		WithAuthorityURL(server.URL))
	if err != nil {
		t.Fatalf("NewClientCredentials() error = %v", err)
	}

	tok, err := provider.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok != "tok-abc" {
		t.Errorf("Token() = %q, want %q", tok, "tok-abc")
	}

	// Second call should hit the cache.
	if _, err := provider.Token(context.Background()); err != nil {
		t.Fatalf("second Token() error = %v", err)
	}
	if requests != 1 {
		t.Errorf("identity endpoint hit %d times, want 1 (cached)", requests)
	}

	// Invalidate forces re-authentication.
	provider.Invalidate()
	if _, err := provider.Token(context.Background()); err != nil {
		t.Fatalf("Token() after Invalidate error = %v", err)
	}
	if requests != 2 {
		t.Errorf("identity endpoint hit %d times after invalidate, want 2", requests)
	}
}

func TestClientCredentials_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"error":             "invalid_client",
			"error_description": "client secret expired",
		})
	}))
	defer server.Close()

	provider, err := NewClientCredentials("t", "c", "s", "scope", WithAuthorityURL(server.URL))
	if err != nil {
		t.Fatalf("NewClientCredentials() error = %v", err)
	}

	_, err = provider.Token(context.Background())
	if err == nil {
		t.Fatal("expected error from rejected token request")
	}
	if !errors.Is(err, errors.ErrAuthFailure) {
		t.Errorf("expected ErrAuthFailure, got %v", err)
	}

	var tokErr *errors.TokenError
	if !errors.As(err, &tokErr) {
		t.Fatalf("expected *TokenError, got %T", err)
	}
	if tokErr.StatusCode != 401 {
		t.Errorf("StatusCode = %d, want 401", tokErr.StatusCode)
	}
}

func TestClientCredentials_EmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"expires_in": 3600})
	}))
	defer server.Close()

	provider, err := NewClientCredentials("t", "c", "s", "scope", WithAuthorityURL(server.URL))
	if err != nil {
		t.Fatalf("NewClientCredentials() error = %v", err)
	}

	if _, err := provider.Token(context.Background()); !errors.Is(err, errors.ErrAuthFailure) {
		t.Errorf("expected ErrAuthFailure for empty token, got %v", err)
	}
}

func TestStatic(t *testing.T) {
	tok, err := Static("fixed").Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok != "fixed" {
		t.Errorf("Token() = %q, want %q", tok, "fixed")
	}

	if _, err := Static("").Token(context.Background()); !errors.Is(err, errors.ErrAuthFailure) {
		t.Errorf("empty static token should fail auth, got %v", err)
	}
}
