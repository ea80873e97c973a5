package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds database configuration.
type Config struct {
	// Driver selects the backend. Empty or "auto" detects it from URL.
	Driver Driver

	// URL is the PostgreSQL connection string or a SQLite file URL.
	URL string

	// SQLitePath is the SQLite database file. Defaults to ~/.onramp/onramp.db.
	SQLitePath string

	// MaxConns caps the PostgreSQL pool size.
	MaxConns int

	// BusyTimeout is how long SQLite waits on a write lock.
	BusyTimeout time.Duration
}

// Connector opens a connection for one driver.
type Connector func(ctx context.Context, cfg Config) (Connection, error)

var connectors = map[Driver]Connector{}

// RegisterDriver makes a connector available to NewConnection. Driver
// packages call it from init, so importing them for side effects is enough.
func RegisterDriver(driver Driver, fn Connector) {
	connectors[driver] = fn
}

// NewConnection creates a database connection based on configuration.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}

	if driver == DriverSQLite && cfg.SQLitePath == "" && cfg.URL != "" {
		cfg.SQLitePath = SQLitePathFromURL(cfg.URL)
	}

	connect, ok := connectors[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return connect(ctx, cfg)
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".onramp", "onramp.db")
}

// EnsureDirectory creates the parent directory for a file path if it doesn't exist.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
