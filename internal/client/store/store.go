// Package store opens the client's local SQLite database, applies the
// embedded goose migrations and vends the local repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/storebox/internal/client/migrations"
	"github.com/dmitrijs2005/storebox/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/storebox/internal/client/repositories/searchhistory"
)

// Repositories bundles the local data access objects.
type Repositories struct {
	Metadata      metadata.Repository
	SearchHistory searchhistory.Repository

	db *sql.DB
}

// Close closes the underlying database.
func (r *Repositories) Close() error {
	return r.db.Close()
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the local database at dsn and
// returns the repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Metadata:      metadata.NewSQLiteRepository(db),
		SearchHistory: searchhistory.NewSQLiteRepository(db),
		db:            db,
	}, nil
}
