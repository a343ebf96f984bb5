// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/migrations"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/repositories/buildings"
	"github.com/dmitrijs2005/onboard/internal/repositories/links"
	"github.com/dmitrijs2005/onboard/internal/repositories/profiles"
	"github.com/dmitrijs2005/onboard/internal/repositories/tags"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Profiles returns a profiles.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Profiles(db dbx.DBTX) profiles.Repository {
	return profiles.NewPostgresRepository(db)
}

// Tags returns the catalog repository for kind bound to the provided DBTX.
func (m *PostgresRepositoryManager) Tags(db dbx.DBTX, kind models.TagKind) (tags.Repository, error) {
	return tags.NewPostgresRepository(db, kind)
}

// Links returns the association repository for kind bound to the provided DBTX.
func (m *PostgresRepositoryManager) Links(db dbx.DBTX, kind models.TagKind) (links.Repository, error) {
	return links.NewPostgresRepository(db, kind)
}

// Buildings returns a buildings.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Buildings(db dbx.DBTX) buildings.Repository {
	return buildings.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
