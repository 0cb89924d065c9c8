package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/whodunit/internal/contract"
	"github.com/huangsam/whodunit/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// ownerTable is the name of the table for owner caching.
const ownerTable = "whodunit_owners"

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// OwnerStoreImpl persists change owners using various database backends.
// Rows are keyed by Perforce server and change number.
type OwnerStoreImpl struct {
	db         *sql.DB
	tableName  string
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
	now        func() time.Time
}

var _ contract.OwnerStore = &OwnerStoreImpl{} // Compile-time check

// NewOwnerStore migrates the backend to the latest schema and returns a store on it.
func NewOwnerStore(backend schema.DatabaseBackend, connStr string) (contract.OwnerStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled caching
		return &OwnerStoreImpl{tableName: ownerTable, backend: backend, now: time.Now}, nil
	}

	if _, err := runMigrations(backend, connStr, -1); err != nil {
		return nil, err
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	return &OwnerStoreImpl{
		db:         db,
		tableName:  ownerTable,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
		now:        time.Now,
	}, nil
}

// openDB opens and pings the database behind a backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = GetDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize SQLite cache at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be:
		// user:password@tcp(host:port)/dbname
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to connect to MySQL cache: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to connect to PostgreSQL cache: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, "", fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, driverName, nil
}

// GetOwner retrieves the owner of a change on a server.
func (s *OwnerStoreImpl) GetOwner(server string, change int) (string, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return "", sql.ErrNoRows
	}

	query := fmt.Sprintf(`SELECT owner FROM %s WHERE p4_server = %s AND change_number = %s`,
		quoteTableName(s.tableName, s.backend), s.placeholder(1), s.placeholder(2))

	var owner string
	if err := s.db.QueryRow(query, server, change).Scan(&owner); err != nil {
		return "", err
	}
	return owner, nil
}

// SetOwner inserts or replaces the owner of a change on a server.
func (s *OwnerStoreImpl) SetOwner(server string, change int, owner string) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	_, err := s.db.Exec(s.upsertQuery(), server, change, owner, s.now().Unix())
	return err
}

// placeholder returns the n-th parameter placeholder for the backend.
func (s *OwnerStoreImpl) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// upsertQuery returns the UPSERT query for the backend.
func (s *OwnerStoreImpl) upsertQuery() string {
	quoted := quoteTableName(s.tableName, s.backend)
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (p4_server, change_number, owner, cached_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE owner = new.owner, cached_at = new.cached_at`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (p4_server, change_number, owner, cached_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (p4_server, change_number) DO UPDATE SET owner = EXCLUDED.owner, cached_at = EXCLUDED.cached_at`, quoted)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (p4_server, change_number, owner, cached_at) VALUES (?, ?, ?, ?)`, quoted)
	}
}

// Close closes the underlying DB connection.
func (s *OwnerStoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the owner store.
func (s *OwnerStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}

	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	quoted := quoteTableName(s.tableName, s.backend)

	row := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*), COUNT(DISTINCT p4_server) FROM %s", quoted))
	if err := row.Scan(&status.TotalEntries, &status.TotalServers); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	row = s.db.QueryRow(fmt.Sprintf("SELECT MAX(cached_at), MIN(cached_at) FROM %s", quoted))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry times: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = s.tableSize(int64(status.TotalEntries))
	return status, nil
}

// tableSize estimates the on-disk size of the owner table.
// Backend-specific queries are used where available, with a per-row estimate as fallback.
func (s *OwnerStoreImpl) tableSize(entries int64) int64 {
	fallback := entries * 100
	var size int64

	switch s.backend {
	case schema.SQLiteBackend:
		row := s.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return fallback
		}

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(s.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		row := s.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, s.tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}

	case schema.PostgreSQLBackend:
		row := s.db.QueryRow("SELECT pg_total_relation_size($1)", s.tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}

	default:
		return fallback
	}
	return size
}

// validateTableName validates that the table name is a safe SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNameRe)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
