package schema

// Custom string types for type safety.
type (
	// RecordStatus represents whether an annotated line still exists at head.
	RecordStatus string

	// ColorMode represents when colored output is used.
	ColorMode string

	// DatabaseBackend represents the database backend for the owner cache.
	DatabaseBackend string
)

// All record statuses supported.
const (
	PresentStatus RecordStatus = "present"
	DeletedStatus RecordStatus = "deleted"
)

// Separators written between the change/owner column and the line text.
const (
	PresentSeparator = "|"
	DeletedSeparator = "-"
)

// All color modes supported.
const (
	ColorAuto   ColorMode = "auto" // default
	ColorAlways ColorMode = "yes"
	ColorNever  ColorMode = "no"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// ValidColorModes lists all valid color modes.
var ValidColorModes = map[ColorMode]struct{}{
	ColorAuto:   {},
	ColorAlways: {},
	ColorNever:  {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
