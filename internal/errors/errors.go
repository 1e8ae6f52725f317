// Package errors provides centralized error definitions and error handling
// utilities for painel. It defines the fetch error taxonomy (auth failures,
// missing documents, timeouts, malformed workbooks), semantic error types
// with context wrapping, and classification helpers used by the pipeline to
// decide whether a failure is retryable or must halt a refresh pass.
//
// Creating errors:
//
//	err := errors.NewSourceError("fetch failed", errors.ErrDocumentNotFound).WithDocumentID("abc123")
//	err := errors.NewTokenError("token request rejected", cause)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrAuthFailure) { ... }
//	if errors.IsRetryable(err) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that are recovered locally (e.g. a missing
	// sheet falling back to the first tab).
	SeverityWarning
	// SeverityError is for errors that halt a refresh pass.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Source-related sentinel errors
var (
	// ErrAuthFailure indicates invalid or expired credentials when obtaining
	// the raw document. The caller should invalidate any cached token and may
	// retry once with a fresh one.
	ErrAuthFailure = New("authentication failed")
	// ErrDocumentNotFound indicates the backing document is unreachable.
	ErrDocumentNotFound = New("document not found")
	// ErrPermissionDenied indicates the credentials lack access to the document.
	ErrPermissionDenied = New("permission denied")
	// ErrFetchTimeout indicates the fetch exceeded its time budget.
	ErrFetchTimeout = New("fetch timed out")
	// ErrSheetNotFound indicates the configured sheet name was absent from the
	// workbook. Sources recover by reading the first sheet; this sentinel is
	// surfaced as a warning, not a hard failure.
	ErrSheetNotFound = New("sheet not found")
	// ErrWorkbookEmpty indicates the workbook contains no sheets at all.
	ErrWorkbookEmpty = New("workbook has no sheets")
)

// Pipeline-related sentinel errors
var (
	// ErrParse indicates a cell value that is neither a closed marker nor
	// numeric. Normalization recovers per record by treating the value as
	// absent; this sentinel only appears in warning-level diagnostics.
	ErrParse = New("cell value not parseable")
	// ErrNoData indicates an operation requires a loaded canonical table and
	// none has been produced yet.
	ErrNoData = New("no data loaded")
)

// General sentinel errors
var (
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PainelError is the base interface for all painel errors. It extends the
// standard error interface with classification methods.
type PainelError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the operation
	// may succeed on retry.
	IsRetryable() bool

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsRetryable returns whether the error is retryable.
func (e *baseError) IsRetryable() bool {
	return e.retryable
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SourceError represents errors obtaining or decoding the raw document.
//
// Example:
//
//	err := errors.NewSourceError("download failed", errors.ErrDocumentNotFound)
//	err = err.WithDocumentID("01S7YQ...").WithSheet("Demandas ID")
type SourceError struct {
	baseError
	DocumentID string
	Sheet      string
}

// NewSourceError creates a new SourceError.
func NewSourceError(message string, cause error) *SourceError {
	return &SourceError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  errors.Is(cause, ErrAuthFailure) || errors.Is(cause, ErrFetchTimeout),
			userFacing: true,
		},
	}
}

// WithDocumentID adds the document identifier to the error context.
func (e *SourceError) WithDocumentID(id string) *SourceError {
	e.DocumentID = id
	return e
}

// WithSheet adds the sheet name to the error context.
func (e *SourceError) WithSheet(sheet string) *SourceError {
	e.Sheet = sheet
	return e
}

// WithSeverity sets the error severity.
func (e *SourceError) WithSeverity(s Severity) *SourceError {
	e.severity = s
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *SourceError) WithRetryable(r bool) *SourceError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *SourceError) Error() string {
	var parts []string
	if e.DocumentID != "" {
		parts = append(parts, fmt.Sprintf("document=%s", e.DocumentID))
	}
	if e.Sheet != "" {
		parts = append(parts, fmt.Sprintf("sheet=%q", e.Sheet))
	}

	prefix := "source error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("source error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SourceError) Is(target error) bool {
	if _, ok := target.(*SourceError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// TokenError represents failures acquiring a bearer token from the identity
// endpoint. Token errors are always retryable: the caller re-authenticates
// and tries again.
type TokenError struct {
	baseError
	StatusCode int
}

// NewTokenError creates a new TokenError.
func NewTokenError(message string, cause error) *TokenError {
	return &TokenError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithStatusCode records the HTTP status returned by the identity endpoint.
func (e *TokenError) WithStatusCode(code int) *TokenError {
	e.StatusCode = code
	return e
}

// Error returns the formatted error message.
func (e *TokenError) Error() string {
	prefix := "token error"
	if e.StatusCode != 0 {
		prefix = fmt.Sprintf("token error [status=%d]", e.StatusCode)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *TokenError) Is(target error) bool {
	if _, ok := target.(*TokenError); ok {
		return true
	}
	if target == ErrAuthFailure {
		return true
	}
	return e.baseError.Is(target)
}

// ExportError represents failures serializing the filtered view.
type ExportError struct {
	baseError
	Format string
	Path   string
}

// NewExportError creates a new ExportError.
func NewExportError(message string, cause error) *ExportError {
	return &ExportError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithFormat records the export format (csv, xlsx, json).
func (e *ExportError) WithFormat(format string) *ExportError {
	e.Format = format
	return e
}

// WithPath records the destination path.
func (e *ExportError) WithPath(path string) *ExportError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *ExportError) Error() string {
	var parts []string
	if e.Format != "" {
		parts = append(parts, fmt.Sprintf("format=%s", e.Format))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}

	prefix := "export error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("export error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ExportError) Is(target error) bool {
	if _, ok := target.(*ExportError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsRetryable reports whether err is transient: the fetch may succeed if the
// caller re-authenticates or simply tries again.
func IsRetryable(err error) bool {
	var pe PainelError
	if errors.As(err, &pe) {
		return pe.IsRetryable()
	}
	return errors.Is(err, ErrAuthFailure) || errors.Is(err, ErrFetchTimeout)
}

// IsUserFacing reports whether err is safe to display to end users.
func IsUserFacing(err error) bool {
	var pe PainelError
	if errors.As(err, &pe) {
		return pe.IsUserFacing()
	}
	return false
}

// SeverityOf returns the severity of err, defaulting to SeverityError for
// errors that carry no classification.
func SeverityOf(err error) Severity {
	var pe PainelError
	if errors.As(err, &pe) {
		return pe.Severity()
	}
	if errors.Is(err, ErrSheetNotFound) || errors.Is(err, ErrParse) {
		return SeverityWarning
	}
	return SeverityError
}

// IsHardFailure reports whether err must halt the refresh pass and leave the
// previous canonical table in place. Warning-severity errors (sheet fallback,
// per-cell parse recovery) are not hard failures.
func IsHardFailure(err error) bool {
	if err == nil {
		return false
	}
	return SeverityOf(err) >= SeverityError
}
