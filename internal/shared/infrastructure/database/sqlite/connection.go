// Package sqlite opens the local mode database on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
)

const defaultBusyTimeout = 5 * time.Second

func init() {
	database.RegisterDriver(database.DriverSQLite, NewConnection)
}

// Connection is a single-writer SQLite handle.
type Connection struct {
	database.SQLExecutor
	db *sql.DB
}

// NewConnection opens cfg.SQLitePath, or the default path, creating the
// parent directory when needed.
func NewConnection(ctx context.Context, cfg database.Config) (database.Connection, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = database.DefaultSQLitePath()
	}
	if err := database.EnsureDirectory(path); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = defaultBusyTimeout
	}
	db, err := sql.Open("sqlite", buildDSN(path, busy))
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// One connection serializes writers; the busy timeout covers other processes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	return &Connection{SQLExecutor: database.SQLExecutor{Q: db}, db: db}, nil
}

// buildDSN appends the pragmas every onramp database runs with: WAL
// journaling, enforced foreign keys, a busy timeout and NORMAL sync.
func buildDSN(path string, busy time.Duration) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)",
		path, sep, busy.Milliseconds())
}

// StdDB returns the underlying handle with a no-op close.
func (c *Connection) StdDB() (*sql.DB, func() error, error) {
	return c.db, func() error { return nil }, nil
}

func (c *Connection) Driver() database.Driver { return database.DriverSQLite }

func (c *Connection) Close() error { return c.db.Close() }

func (c *Connection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

// BeginTx starts a transaction. With a single pooled connection it holds
// the connection until Commit or Rollback.
func (c *Connection) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Transaction{SQLExecutor: database.SQLExecutor{Q: tx}, tx: tx}, nil
}

// Transaction is an open SQLite transaction.
type Transaction struct {
	database.SQLExecutor
	tx *sql.Tx
}

func (t *Transaction) Commit(context.Context) error { return t.tx.Commit() }

func (t *Transaction) Rollback(context.Context) error { return t.tx.Rollback() }
