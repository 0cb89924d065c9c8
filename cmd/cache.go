package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/internal/iocache"
	"github.com/huangsam/whodunit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheConfig loads the minimal configuration needed for cache operations.
// This avoids p4 and color processing for simple cache maintenance.
func cacheConfig() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetup loads cache configuration and opens the owner store.
func cacheSetup() error {
	if err := cacheConfig(); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// sqlitePath is the database file used by the sqlite backend.
func sqlitePath() string {
	if cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return contract.GetOwnerDBFilePath()
}

// cacheCmd focused on cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the change owner cache",
	Long: `Manage the cache that maps change numbers to their owners.

Without a cache every file looks up the owner of each of its changes with
p4 describe. With a cache backend configured, owners are remembered per
Perforce server across files and runs. Change owners never change once
submitted, so entries do not expire.

Supported backends: None (default), SQLite, MySQL, PostgreSQL

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached owners
  migrate - Run database schema migrations

Examples:
  # Check cache status
  whodunit cache status --cache-backend sqlite

  # Clear a MySQL cache (set connection string via env variable)
  WHODUNIT_CACHE_BACKEND=mysql WHODUNIT_CACHE_DB_CONNECT="..." whodunit cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached change owners",
	Long: `Delete all cached change owners from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Deletes all rows of the owner table`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfig()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := iocache.ClearCache(cfg.CacheBackend, sqlitePath(), cfg.CacheDBConnect); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		fmt.Println("Cache cleared successfully.")
		return nil
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, the number of cached owners and servers,
the newest and oldest entries, and the size of the owner table.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		store := iocache.Manager.GetOwnerStore()
		if store == nil {
			iocache.PrintCacheStatus(os.Stdout, schema.CacheStatus{Backend: string(cfg.CacheBackend)})
			return nil
		}
		status, err := store.GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
		return nil
	},
}

// cacheMigrateCmd runs database migrations for the owner store.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Migrate the owner cache schema to a given version.

Stores are migrated to the latest version whenever they are opened, so this is
only needed to roll back or to prepare a shared database ahead of time.

Examples:
  # Migrate to the latest version
  whodunit cache migrate --cache-backend sqlite

  # Roll back everything
  whodunit cache migrate --cache-backend sqlite --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheConfig()
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		connStr := cfg.CacheDBConnect
		if cfg.CacheBackend == schema.SQLiteBackend {
			connStr = sqlitePath()
		}
		if err := iocache.MigrateOwners(cfg.CacheBackend, connStr, viper.GetInt("target-version")); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	},
}
