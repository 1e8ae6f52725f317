package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete painel configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Columns  ColumnConfig   `mapstructure:"columns"`
	Classify ClassifyConfig `mapstructure:"classify"`
	Export   ExportConfig   `mapstructure:"export"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	TUI      TUIConfig      `mapstructure:"tui"`
}

// SourceConfig selects where the raw job table comes from
type SourceConfig struct {
	// Mode is the fetch strategy: "file" reads a local workbook,
	// "remote" downloads it from the document store
	Mode string `mapstructure:"mode"`
	// Path is the local workbook path (file mode)
	Path string `mapstructure:"path"`
	// DriveUser is the document-store drive owner (remote mode)
	DriveUser string `mapstructure:"drive_user"`
	// FileID is the document identifier in the drive (remote mode)
	FileID string `mapstructure:"file_id"`
	// Sheet is the named tab to read; when absent from the workbook the
	// first tab is read instead and a warning is surfaced
	Sheet string `mapstructure:"sheet"`
}

// AuthConfig holds client-credential settings for the remote document store
type AuthConfig struct {
	// TenantID is the directory tenant for the identity endpoint
	TenantID string `mapstructure:"tenant_id"`
	// ClientID identifies the registered application
	ClientID string `mapstructure:"client_id"`
	// ClientSecret authenticates the application (prefer PAINEL_AUTH_CLIENT_SECRET)
	ClientSecret string `mapstructure:"client_secret"`
	// Scope is the requested token scope
	Scope string `mapstructure:"scope"`
}

// FetchConfig controls remote fetch behavior
type FetchConfig struct {
	// TimeoutSeconds bounds a single fetch; past it the fetch fails with a
	// timeout instead of hanging
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// RetryOnAuthFailure invalidates the cached token and retries the fetch
	// once when the document store rejects the bearer token
	RetryOnAuthFailure bool `mapstructure:"retry_on_auth_failure"`
}

// CacheConfig controls the staleness window in front of the source
type CacheConfig struct {
	// TTLSeconds is how long a fetched snapshot stays fresh (0 disables caching)
	TTLSeconds int `mapstructure:"ttl_seconds"`
	// WatchLocal invalidates the cache when a local workbook changes on disk
	WatchLocal bool `mapstructure:"watch_local"`
}

// ColumnConfig maps the sheet's column headers to the fields the pipeline reads.
// Defaults match the original job sheet's Portuguese headers.
type ColumnConfig struct {
	Campaign   string `mapstructure:"campaign"`
	Status     string `mapstructure:"status"`
	Deadline   string `mapstructure:"deadline"`
	Priority   string `mapstructure:"priority"`
	Production string `mapstructure:"production"`
	Requester  string `mapstructure:"requester"`
	Submitted  string `mapstructure:"submitted"`
}

// ClassifyConfig controls deadline classification thresholds
type ClassifyConfig struct {
	// WarningDays is the upper bound of the warning band: open records with
	// 0 < days <= WarningDays are flagged Warning
	WarningDays int `mapstructure:"warning_days"`
	// BucketMidDays is the upper bound of the middle display bucket
	// (Closed / 1..WarningDays / WarningDays+1..BucketMidDays / >BucketMidDays)
	BucketMidDays int `mapstructure:"bucket_mid_days"`
	// ClosedMarker is the case-insensitive substring marking an expired deadline
	ClosedMarker string `mapstructure:"closed_marker"`
}

// ExportConfig controls export defaults
type ExportConfig struct {
	// Format is the default export format: "csv", "xlsx", or "json"
	Format string `mapstructure:"format"`
	// Dir is the default output directory (empty = current directory)
	Dir string `mapstructure:"dir"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled turns file logging on or off
	Enabled bool `mapstructure:"enabled"`
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// File overrides the log file path (default: <config dir>/painel.log)
	File string `mapstructure:"file"`
	// MaxSizeMB is the log size before rotation
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated logs to keep
	MaxBackups int `mapstructure:"max_backups"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// MaxDetailRows limits how many rows the detail table renders
	MaxDetailRows int `mapstructure:"max_detail_rows"`
	// ShowLegend shows the deadline bucket legend above the detail view
	ShowLegend bool `mapstructure:"show_legend"`
}

// Valid source modes.
const (
	SourceModeFile   = "file"
	SourceModeRemote = "remote"
)

// SourceModes returns the list of valid source modes
func SourceModes() []string {
	return []string{SourceModeFile, SourceModeRemote}
}

// ExportFormats returns the list of valid export formats
func ExportFormats() []string {
	return []string{"csv", "xlsx", "json"}
}

// Timeout returns the fetch timeout as a time.Duration
func (c *FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// TTL returns the cache staleness window as a time.Duration
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Mode:  "file",
			Path:  "jobs.xlsx",
			Sheet: "Demandas ID",
		},
		Auth: AuthConfig{
			Scope: "https://graph.microsoft.com/.default",
		},
		Fetch: FetchConfig{
			TimeoutSeconds:     30,
			RetryOnAuthFailure: true,
		},
		Cache: CacheConfig{
			TTLSeconds: 300, // 5 minutes, matching the sheet's edit cadence
			WatchLocal: true,
		},
		Columns: ColumnConfig{
			Campaign:   "Campanha ou Ação",
			Status:     "Status Operacional",
			Deadline:   "Prazo em dias",
			Priority:   "Prioridade",
			Production: "Produção",
			Requester:  "Solicitante",
			Submitted:  "Data de Solicitação",
		},
		Classify: ClassifyConfig{
			WarningDays:   5,
			BucketMidDays: 10,
			ClosedMarker:  "encerrado",
		},
		Export: ExportConfig{
			Format: "csv",
			Dir:    "",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		TUI: TUIConfig{
			MaxDetailRows: 500,
			ShowLegend:    true,
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Source defaults
	viper.SetDefault("source.mode", defaults.Source.Mode)
	viper.SetDefault("source.path", defaults.Source.Path)
	viper.SetDefault("source.drive_user", defaults.Source.DriveUser)
	viper.SetDefault("source.file_id", defaults.Source.FileID)
	viper.SetDefault("source.sheet", defaults.Source.Sheet)

	// Auth defaults
	viper.SetDefault("auth.tenant_id", defaults.Auth.TenantID)
	viper.SetDefault("auth.client_id", defaults.Auth.ClientID)
	viper.SetDefault("auth.client_secret", defaults.Auth.ClientSecret)
	viper.SetDefault("auth.scope", defaults.Auth.Scope)

	// Fetch defaults
	viper.SetDefault("fetch.timeout_seconds", defaults.Fetch.TimeoutSeconds)
	viper.SetDefault("fetch.retry_on_auth_failure", defaults.Fetch.RetryOnAuthFailure)

	// Cache defaults
	viper.SetDefault("cache.ttl_seconds", defaults.Cache.TTLSeconds)
	viper.SetDefault("cache.watch_local", defaults.Cache.WatchLocal)

	// Column defaults
	viper.SetDefault("columns.campaign", defaults.Columns.Campaign)
	viper.SetDefault("columns.status", defaults.Columns.Status)
	viper.SetDefault("columns.deadline", defaults.Columns.Deadline)
	viper.SetDefault("columns.priority", defaults.Columns.Priority)
	viper.SetDefault("columns.production", defaults.Columns.Production)
	viper.SetDefault("columns.requester", defaults.Columns.Requester)
	viper.SetDefault("columns.submitted", defaults.Columns.Submitted)

	// Classify defaults
	viper.SetDefault("classify.warning_days", defaults.Classify.WarningDays)
	viper.SetDefault("classify.bucket_mid_days", defaults.Classify.BucketMidDays)
	viper.SetDefault("classify.closed_marker", defaults.Classify.ClosedMarker)

	// Export defaults
	viper.SetDefault("export.format", defaults.Export.Format)
	viper.SetDefault("export.dir", defaults.Export.Dir)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// TUI defaults
	viper.SetDefault("tui.max_detail_rows", defaults.TUI.MaxDetailRows)
	viper.SetDefault("tui.show_legend", defaults.TUI.ShowLegend)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "painel")
	}
	// Fall back to ~/.config/painel
	home, err := os.UserHomeDir()
	if err != nil {
		return ".painel"
	}
	return filepath.Join(home, ".config", "painel")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogFile returns the effective log file path
func (c *Config) LogFile() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return filepath.Join(ConfigDir(), "painel.log")
}
