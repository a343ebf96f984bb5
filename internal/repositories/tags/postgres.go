package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/models"
)

var tables = map[models.TagKind]string{
	models.TagInterest: "interests",
	models.TagClub:     "clubs",
}

// TableFor returns the catalog table for kind.
func TableFor(kind models.TagKind) (string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("tag kind %q: %w", kind, common.ErrUnknownOption)
	}
	return t, nil
}

type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

func NewPostgresRepository(db dbx.DBTX, kind models.TagKind) (*PostgresRepository, error) {
	table, err := TableFor(kind)
	if err != nil {
		return nil, err
	}
	return &PostgresRepository{db: db, table: table}, nil
}

func (r *PostgresRepository) FindByName(ctx context.Context, name string) (*models.Tag, error) {
	query := fmt.Sprintf(
		`SELECT id, name FROM %s
		 WHERE name = $1
		 `, r.table)

	tag := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tag, nil
}

// Create inserts a new tag. A name that already exists, including one committed
// concurrently by another session, yields common.ErrAlreadyExists without
// aborting the surrounding transaction.
func (r *PostgresRepository) Create(ctx context.Context, name string) (*models.Tag, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (name)
		 VALUES ($1)
		 ON CONFLICT (name) DO NOTHING
		 RETURNING id
		 `, r.table)

	tag := &models.Tag{Name: name}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tag, nil
}

func (r *PostgresRepository) ListNames(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`SELECT name FROM %s ORDER BY name`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		names = append(names, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return names, nil
}
