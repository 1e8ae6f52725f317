// Package cmd wires the painel subcommands: the interactive dashboard,
// one-shot summary and listing views, exports and refresh checks.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/midiaops/painel/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "painel",
	Short: "Campaign demand tracking dashboard",
	Long: `Painel ingests the campaign demand sheet, derives deadline status for
every job and presents filtered, aggregated views: an interactive
terminal dashboard, one-shot summaries and file exports.

The sheet can live on disk or in the remote drive; see "painel config"
for source settings.`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/painel/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/painel")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("PAINEL")
	// Replace dots with underscores for nested keys in env vars
	// e.g., PAINEL_SOURCE_FILE_ID for source.file_id
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
