// Package cmd defines the command-line interface for whodunit.
package cmd

import (
	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// -V mirrors the classic short version flag; cobra prints Version when it is set
	rootCmd.Flags().BoolP("version", "V", false, "Print the version of whodunit")

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("p4-bin", contract.DefaultP4Binary, "Path to the p4 executable")
	rootCmd.PersistentFlags().String("p4-port", "", "Perforce server address (defaults to P4PORT)")
	rootCmd.PersistentFlags().String("p4-user", "", "Perforce user (defaults to P4USER)")
	rootCmd.PersistentFlags().String("p4-client", "", "Perforce client workspace (defaults to P4CLIENT)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Print progress to stderr; repeat for more detail")
	rootCmd.PersistentFlags().String("color", string(schema.ColorAuto), "Color separators and owners: auto or yes or no")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.NoneBackend), "Owner cache backend: none or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
