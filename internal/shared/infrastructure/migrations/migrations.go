// Package migrations applies the embedded schema with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	"github.com/felixgeelhaar/onramp/internal/shared/infrastructure/database"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// goose keeps its dialect and filesystem in package state.
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Dir returns the embedded directory holding migrations for driver.
func Dir(driver database.Driver) string {
	if driver == database.DriverPostgres {
		return "postgres"
	}
	return "sqlite"
}

// Up applies every pending migration for the connection's driver.
func Up(ctx context.Context, conn database.Connection) error {
	db, release, err := conn.StdDB()
	if err != nil {
		return fmt.Errorf("open migration handle: %w", err)
	}
	defer func() { _ = release() }()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)

	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(conn.Driver().GooseDialect()); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	if err := gooseUpContext(ctx, db, Dir(conn.Driver())); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
