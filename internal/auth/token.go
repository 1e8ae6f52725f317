// Package auth supplies bearer tokens for the remote document store.
// The core pipeline only depends on the TokenProvider interface; the
// concrete implementation speaks the client-credentials grant to the
// Microsoft identity endpoint and caches the token until it expires.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/midiaops/painel/internal/errors"
)

const (
	// defaultAuthorityURL is the Microsoft identity platform endpoint.
	defaultAuthorityURL = "https://login.microsoftonline.com"

	// defaultTimeout is the token request timeout.
	defaultTimeout = 15 * time.Second

	// expirySkew is subtracted from the reported lifetime so a token is
	// refreshed before the document store would reject it.
	expirySkew = 60 * time.Second
)

// TokenProvider supplies a bearer token for the document store.
// Invalidate discards any cached token; callers do this when the store
// rejects a token so the next fetch re-authenticates.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

// ClientCredentials implements TokenProvider using the OAuth2
// client-credentials grant. It is safe for concurrent use.
type ClientCredentials struct {
	tenantID     string
	clientID     string
	clientSecret string
	scope        string
	authorityURL string
	httpClient   *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// Option configures a ClientCredentials provider.
type Option func(*ClientCredentials)

// WithAuthorityURL overrides the identity endpoint base URL.
// Primarily used by tests.
func WithAuthorityURL(base string) Option {
	return func(c *ClientCredentials) {
		c.authorityURL = strings.TrimRight(base, "/")
	}
}

// WithTimeout sets the token request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *ClientCredentials) {
		c.httpClient.Timeout = timeout
	}
}

// NewClientCredentials creates a provider for the given application
// registration. Returns an error if any credential field is empty.
func NewClientCredentials(tenantID, clientID, clientSecret, scope string, opts ...Option) (*ClientCredentials, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("tenant_id, client_id and client_secret are required")
	}
	if scope == "" {
		return nil, fmt.Errorf("token scope is required")
	}

	c := &ClientCredentials{
		tenantID:     tenantID,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        scope,
		authorityURL: defaultAuthorityURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// tokenResponse is the identity endpoint response structure.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// Token returns a cached token if still fresh, otherwise requests a new one.
func (c *ClientCredentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiresAt) {
		return c.token, nil
	}

	token, expiresIn, err := c.requestToken(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = time.Now().Add(time.Duration(expiresIn)*time.Second - expirySkew)
	return token, nil
}

// Invalidate discards the cached token so the next Token call re-authenticates.
func (c *ClientCredentials) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiresAt = time.Time{}
}

// requestToken performs the client-credentials POST. The caller must hold the mutex.
func (c *ClientCredentials) requestToken(ctx context.Context) (string, int, error) {
	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.authorityURL, c.tenantID)

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("scope", c.scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, errors.NewTokenError("create request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, errors.NewTokenError("token request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, errors.NewTokenError("read token response", err)
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", 0, errors.NewTokenError("unmarshal token response", err).WithStatusCode(resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		msg := tok.ErrorDesc
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return "", 0, errors.NewTokenError(fmt.Sprintf("identity endpoint rejected request: %s", msg), errors.ErrAuthFailure).
			WithStatusCode(resp.StatusCode)
	}

	if tok.AccessToken == "" {
		return "", 0, errors.NewTokenError("identity endpoint returned no token", errors.ErrAuthFailure).
			WithStatusCode(resp.StatusCode)
	}

	return tok.AccessToken, tok.ExpiresIn, nil
}

// Static is a TokenProvider that always returns the same token.
// Useful for tests and for pre-issued tokens.
type Static string

// Token returns the static token.
func (s Static) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", errors.NewTokenError("no token configured", errors.ErrAuthFailure)
	}
	return string(s), nil
}

// Invalidate is a no-op for static tokens.
func (s Static) Invalidate() {}
