package iocache

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for owner storage.
func GetDBFilePath() string {
	return contract.GetOwnerDBFilePath()
}

// InitStores initializes the global cache manager with the owner store.
// An empty or none backend leaves the manager without a store.
func InitStores(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" || backend == schema.NoneBackend {
			return
		}
		store, err := NewOwnerStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize owner caching: %w", err)
			return
		}
		Manager.Lock()
		Manager.owners = store
		Manager.Unlock()
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called once by main
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.owners != nil {
			_ = Manager.owners.Close()
		}
	})
}

// ClearCache removes every cached owner for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it empties the table and keeps the schema version.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		// Remove the file; ignore if it doesn't exist
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend:
		return clearSQLTable(backend, connStr, ownerTable)

	case schema.PostgreSQLBackend:
		return clearSQLTable(backend, connStr, ownerTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// clearSQLTable brings the schema up to date and deletes all rows of the table.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	if _, err := runMigrations(backend, connStr, -1); err != nil {
		return err
	}

	db, _, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	query := fmt.Sprintf("DELETE FROM %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to clear table %s: %w", tableName, err)
	}

	return nil
}
