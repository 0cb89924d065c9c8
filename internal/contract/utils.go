package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/whodunit/schema"
)

// Color variables for console output.
var (
	PresentColor = color.New(color.FgGreen)            // PresentColor marks lines that still exist.
	DeletedColor = color.New(color.FgRed)              // DeletedColor marks lines that were removed.
	OwnerColor   = color.New(color.FgCyan, color.Bold) // OwnerColor highlights owner names in tables.
	InfoColor    = color.New(color.FgBlue)             // InfoColor prefixes verbose messages.
	FatalColor   = color.New(color.FgRed, color.Bold)  // FatalColor prefixes fatal diagnostics.
	WarnColor    = color.New(color.FgYellow)           // WarnColor prefixes warnings.
)

// SeparatorFor returns the report separator for a record status.
func SeparatorFor(status schema.RecordStatus) string {
	if status == schema.PresentStatus {
		return schema.PresentSeparator
	}
	return schema.DeletedSeparator
}

// GetColorSeparator returns the separator colored for console output.
func GetColorSeparator(status schema.RecordStatus) string {
	sep := SeparatorFor(status)
	if status == schema.PresentStatus {
		return forceColor(PresentColor).Sprint(sep)
	}
	return forceColor(DeletedColor).Sprint(sep)
}

// GetColorOwner returns the owner name colored for console output.
func GetColorOwner(owner string) string {
	return forceColor(OwnerColor).Sprint(owner)
}

// forceColor returns a copy of c that emits escape codes regardless of the
// global TTY detection, which is already resolved by the --color flag.
func forceColor(c *color.Color) *color.Color {
	forced := *c
	forced.EnableColor()
	return &forced
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", FatalColor.Sprint("ERROR"), msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s: %v\n", WarnColor.Sprint("WARN"), msg, err)
}

// GetOwnerDBFilePath returns the path to the SQLite DB file for owner storage.
func GetOwnerDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".whodunit_owners.db"
	}
	return filepath.Join(homeDir, ".whodunit_owners.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected auto/yes/no/true/false/1/0)", s)
	}
}
