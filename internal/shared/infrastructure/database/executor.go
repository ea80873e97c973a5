package database

import (
	"context"
	"database/sql"
)

// Row is satisfied by pgx.Row and *sql.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is satisfied by *sql.Rows and by the pgx adapter.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports how many rows a statement touched. Inserts that need a
// generated value use RETURNING instead.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs statements with $N placeholders, which both PostgreSQL and
// SQLite accept. Repositories obtain one with ExecutorFromContext so they
// join an open unit of work.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that must end in Commit or Rollback.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled database handle.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
	// StdDB exposes a database/sql handle for migrations. Calling the
	// returned close function must leave the connection usable.
	StdDB() (*sql.DB, func() error, error)
}

// SQLQueryer is the method set shared by *sql.DB and *sql.Tx.
type SQLQueryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLExecutor adapts a database/sql handle to Executor.
type SQLExecutor struct {
	Q SQLQueryer
}

// Exec runs a statement.
func (e SQLExecutor) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := e.Q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// QueryRow runs a query expected to return at most one row.
func (e SQLExecutor) QueryRow(ctx context.Context, query string, args ...any) Row {
	return e.Q.QueryRowContext(ctx, query, args...)
}

// Query runs a query returning rows.
func (e SQLExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := e.Q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Touched reports whether a statement affected at least one row.
func Touched(res Result) bool {
	n, err := res.RowsAffected()
	return err == nil && n > 0
}
