package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "fetch.timeout_seconds")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(SourceModes(), c.Source.Mode) {
		errors = append(errors, ValidationError{
			Field:   "source.mode",
			Value:   c.Source.Mode,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(SourceModes(), ", ")),
		})
	}

	switch c.Source.Mode {
	case "file":
		if c.Source.Path == "" {
			errors = append(errors, ValidationError{
				Field:   "source.path",
				Value:   c.Source.Path,
				Message: "required in file mode",
			})
		}
	case "remote":
		if c.Source.FileID == "" {
			errors = append(errors, ValidationError{
				Field:   "source.file_id",
				Value:   c.Source.FileID,
				Message: "required in remote mode",
			})
		}
		if c.Source.DriveUser == "" {
			errors = append(errors, ValidationError{
				Field:   "source.drive_user",
				Value:   c.Source.DriveUser,
				Message: "required in remote mode",
			})
		}
		if c.Auth.TenantID == "" || c.Auth.ClientID == "" {
			errors = append(errors, ValidationError{
				Field:   "auth",
				Value:   "",
				Message: "tenant_id and client_id are required in remote mode",
			})
		}
	}

	if c.Fetch.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "fetch.timeout_seconds",
			Value:   c.Fetch.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	if c.Cache.TTLSeconds < 0 {
		errors = append(errors, ValidationError{
			Field:   "cache.ttl_seconds",
			Value:   c.Cache.TTLSeconds,
			Message: "must not be negative",
		})
	}

	if c.Columns.Campaign == "" {
		errors = append(errors, ValidationError{
			Field:   "columns.campaign",
			Value:   c.Columns.Campaign,
			Message: "campaign column header is required",
		})
	}
	if c.Columns.Status == "" {
		errors = append(errors, ValidationError{
			Field:   "columns.status",
			Value:   c.Columns.Status,
			Message: "status column header is required",
		})
	}

	if c.Classify.WarningDays <= 0 {
		errors = append(errors, ValidationError{
			Field:   "classify.warning_days",
			Value:   c.Classify.WarningDays,
			Message: "must be positive",
		})
	}
	if c.Classify.BucketMidDays <= c.Classify.WarningDays {
		errors = append(errors, ValidationError{
			Field:   "classify.bucket_mid_days",
			Value:   c.Classify.BucketMidDays,
			Message: fmt.Sprintf("must be greater than warning_days (%d)", c.Classify.WarningDays),
		})
	}
	if c.Classify.ClosedMarker == "" {
		errors = append(errors, ValidationError{
			Field:   "classify.closed_marker",
			Value:   c.Classify.ClosedMarker,
			Message: "closed marker substring is required",
		})
	}

	if !slices.Contains(ExportFormats(), c.Export.Format) {
		errors = append(errors, ValidationError{
			Field:   "export.format",
			Value:   c.Export.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ExportFormats(), ", ")),
		})
	}

	if !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must not be negative",
		})
	}
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must not be negative",
		})
	}

	if c.TUI.MaxDetailRows <= 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.max_detail_rows",
			Value:   c.TUI.MaxDetailRows,
			Message: "must be positive",
		})
	}

	return errors
}
