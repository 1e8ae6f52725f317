package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/midiaops/painel/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify painel configuration",
	Long: `View or modify painel configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  painel config set source.mode remote
  painel config set source.file_id 01ABCDEF
  painel config set classify.warning_days 5

Valid keys:
  source.mode           - Where the sheet lives: file or remote
  source.path           - Workbook path for file mode
  source.drive_user     - Drive owner for remote mode
  source.file_id        - Document identifier for remote mode
  source.sheet          - Sheet name (empty reads the first sheet)
  fetch.timeout_seconds - Fetch time budget
  cache.ttl_seconds     - Staleness window between fetches
  classify.warning_days - Days at or under which a job needs attention
  classify.closed_marker - Text marking an expired deadline
  export.format         - Default export format: csv, json or xlsx
  export.dir            - Default export directory
  logging.level         - Log level: debug, info, warn, error`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/painel/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	fmt.Println("Current configuration:")
	fmt.Println()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Printf("Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Printf("Config file: (none - using defaults)\n")
	}
	fmt.Println()

	fmt.Println("source:")
	fmt.Printf("  mode: %s\n", cfg.Source.Mode)
	fmt.Printf("  path: %s\n", cfg.Source.Path)
	fmt.Printf("  drive_user: %s\n", cfg.Source.DriveUser)
	fmt.Printf("  file_id: %s\n", cfg.Source.FileID)
	fmt.Printf("  sheet: %s\n", cfg.Source.Sheet)

	fmt.Println("fetch:")
	fmt.Printf("  timeout_seconds: %d\n", cfg.Fetch.TimeoutSeconds)
	fmt.Printf("  retry_on_auth_failure: %v\n", cfg.Fetch.RetryOnAuthFailure)

	fmt.Println("cache:")
	fmt.Printf("  ttl_seconds: %d\n", cfg.Cache.TTLSeconds)
	fmt.Printf("  watch_local: %v\n", cfg.Cache.WatchLocal)

	fmt.Println("classify:")
	fmt.Printf("  warning_days: %d\n", cfg.Classify.WarningDays)
	fmt.Printf("  bucket_mid_days: %d\n", cfg.Classify.BucketMidDays)
	fmt.Printf("  closed_marker: %s\n", cfg.Classify.ClosedMarker)

	fmt.Println("export:")
	fmt.Printf("  format: %s\n", cfg.Export.Format)
	fmt.Printf("  dir: %s\n", cfg.Export.Dir)

	fmt.Println("logging:")
	fmt.Printf("  enabled: %v\n", cfg.Logging.Enabled)
	fmt.Printf("  level: %s\n", cfg.Logging.Level)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	// Validate the key exists
	validKeys := map[string]string{
		"source.mode":              "string",
		"source.path":              "string",
		"source.drive_user":        "string",
		"source.file_id":           "string",
		"source.sheet":             "string",
		"fetch.timeout_seconds":    "int",
		"cache.ttl_seconds":        "int",
		"cache.watch_local":        "bool",
		"classify.warning_days":    "int",
		"classify.bucket_mid_days": "int",
		"classify.closed_marker":   "string",
		"export.format":            "string",
		"export.dir":               "string",
		"logging.enabled":          "bool",
		"logging.level":            "string",
	}

	keyType, ok := validKeys[key]
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'painel config set --help' to see valid keys", key)
	}

	// Validate the value based on type
	var typedValue interface{}
	switch keyType {
	case "string":
		switch key {
		case "source.mode":
			if !contains(config.SourceModes(), value) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.SourceModes(), ", "))
			}
		case "export.format":
			if !contains(config.ExportFormats(), value) {
				return fmt.Errorf("invalid value for %s: %s\nValid options: %s",
					key, value, strings.Join(config.ExportFormats(), ", "))
			}
		}
		typedValue = value
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		typedValue = value == "true"
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		typedValue = intVal
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Set %s = %v\n", key, typedValue)
	fmt.Printf("Config saved to %s\n", configFile)

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'painel config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Generate a commented config file
	configContent := `# Painel configuration

# Where the demand sheet lives.
source:
  # file reads a workbook from disk; remote downloads it from the drive
  mode: file
  path: ""
  # Remote mode settings
  drive_user: ""
  file_id: ""
  # Sheet to read; empty reads the first sheet
  sheet: "Demandas ID"

# Credentials for remote mode (client credentials flow).
# Prefer the PAINEL_AUTH_CLIENT_SECRET environment variable over
# writing the secret here.
auth:
  tenant_id: ""
  client_id: ""
  client_secret: ""
  scope: "https://graph.microsoft.com/.default"

fetch:
  timeout_seconds: 30
  retry_on_auth_failure: true

cache:
  # Staleness window between fetches, in seconds
  ttl_seconds: 300
  # Invalidate the cache when a local workbook changes on disk
  watch_local: true

# Column headers as they appear in the sheet.
columns:
  campaign: "Campanha ou Ação"
  status: "Status Operacional"
  deadline: "Prazo em dias"
  priority: "Prioridade"
  production: "Produção"
  requester: "Solicitante"
  submitted: "Data de Solicitação"

classify:
  # Days at or under which an open job needs attention
  warning_days: 5
  # Upper bound of the middle legend band
  bucket_mid_days: 10
  # Text marking an expired deadline, matched case-insensitively
  closed_marker: "encerrado"

export:
  # csv, json or xlsx
  format: csv
  dir: ""

logging:
  enabled: true
  level: info
  max_size_mb: 10
  max_backups: 3

tui:
  max_detail_rows: 500
  show_legend: true
`

	if err := os.WriteFile(configFile, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Println(config.ConfigFile())
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
