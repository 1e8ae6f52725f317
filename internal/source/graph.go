package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/midiaops/painel/internal/auth"
	"github.com/midiaops/painel/internal/errors"
	"github.com/midiaops/painel/internal/logging"
)

const (
	// defaultGraphURL is the document store API endpoint.
	defaultGraphURL = "https://graph.microsoft.com/v1.0"

	// defaultFetchTimeout bounds a single document download.
	defaultFetchTimeout = 30 * time.Second
)

// GraphSource downloads the job workbook from the remote document store
// using a caller-supplied bearer token. When the store rejects the token,
// the cached token is invalidated and the fetch retried exactly once.
type GraphSource struct {
	baseURL     string
	driveUser   string
	fileID      string
	sheet       string
	tokens      auth.TokenProvider
	retryOnAuth bool
	httpClient  *http.Client
	log         *logging.Logger
}

// GraphOption configures a GraphSource.
type GraphOption func(*GraphSource)

// WithBaseURL overrides the document store endpoint. Primarily for tests.
func WithBaseURL(base string) GraphOption {
	return func(s *GraphSource) {
		s.baseURL = strings.TrimRight(base, "/")
	}
}

// WithFetchTimeout sets the HTTP client timeout for a single download.
func WithFetchTimeout(timeout time.Duration) GraphOption {
	return func(s *GraphSource) {
		s.httpClient.Timeout = timeout
	}
}

// WithAuthRetry controls the invalidate-and-retry-once policy on auth
// rejection (default true).
func WithAuthRetry(retry bool) GraphOption {
	return func(s *GraphSource) {
		s.retryOnAuth = retry
	}
}

// NewGraphSource creates a remote source for the given drive user and
// document identifier, scoped to the named sheet (empty = first sheet).
func NewGraphSource(driveUser, fileID, sheet string, tokens auth.TokenProvider, log *logging.Logger, opts ...GraphOption) (*GraphSource, error) {
	if driveUser == "" || fileID == "" {
		return nil, fmt.Errorf("drive user and file id are required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token provider is required")
	}
	if log == nil {
		log = logging.NopLogger()
	}

	s := &GraphSource{
		baseURL:     defaultGraphURL,
		driveUser:   driveUser,
		fileID:      fileID,
		sheet:       sheet,
		tokens:      tokens,
		retryOnAuth: true,
		httpClient: &http.Client{
			Timeout: defaultFetchTimeout,
		},
		log: log.WithComponent("source").WithSource("remote", fileID),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Fetch downloads and decodes the workbook. On an auth rejection the cached
// token is invalidated and the download retried once with a fresh token;
// a second rejection surfaces as AuthFailure.
func (s *GraphSource) Fetch(ctx context.Context) (*RawTable, error) {
	data, err := s.download(ctx)
	if errors.Is(err, errors.ErrAuthFailure) && s.retryOnAuth {
		s.log.Warn("bearer token rejected, re-authenticating and retrying once")
		s.tokens.Invalidate()
		data, err = s.download(ctx)
	}
	if err != nil {
		return nil, err
	}

	table, err := decodeBytes(data, s.sheet)
	if err != nil {
		return nil, err
	}

	for _, w := range table.Warnings {
		s.log.Warn(w)
	}
	s.log.Debug("workbook downloaded", "sheet", table.Sheet, "rows", len(table.Rows), "bytes", len(data))
	return table, nil
}

// download performs one authenticated GET of the document content.
func (s *GraphSource) download(ctx context.Context) ([]byte, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/users/%s/drive/items/%s/content",
		s.baseURL, url.PathEscape(s.driveUser), url.PathEscape(s.fileID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NewSourceError("create request", err).WithDocumentID(s.fileID)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.NewSourceError("document download exceeded time budget", errors.ErrFetchTimeout).
				WithDocumentID(s.fileID)
		}
		return nil, errors.NewSourceError("document download failed", err).WithDocumentID(s.fileID)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to read the body
	case http.StatusUnauthorized:
		return nil, errors.NewSourceError("document store rejected bearer token", errors.ErrAuthFailure).
			WithDocumentID(s.fileID)
	case http.StatusForbidden:
		return nil, errors.NewSourceError("access to document denied", errors.ErrPermissionDenied).
			WithDocumentID(s.fileID)
	case http.StatusNotFound:
		return nil, errors.NewSourceError("document not found in drive", errors.ErrDocumentNotFound).
			WithDocumentID(s.fileID)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewSourceError(
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil).
			WithDocumentID(s.fileID)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, errors.NewSourceError("document download exceeded time budget", errors.ErrFetchTimeout).
				WithDocumentID(s.fileID)
		}
		return nil, errors.NewSourceError("read document content", err).WithDocumentID(s.fileID)
	}

	return data, nil
}

// isTimeout reports whether err is a client timeout or context deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout() || errors.Is(urlErr.Err, context.DeadlineExceeded)
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
