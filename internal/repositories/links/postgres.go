package links

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/models"
)

type schema struct {
	table  string
	column string
}

var schemas = map[models.TagKind]schema{
	models.TagInterest: {table: "user_interests", column: "interest_id"},
	models.TagClub:     {table: "user_clubs", column: "club_id"},
}

type PostgresRepository struct {
	db dbx.DBTX
	s  schema
}

func NewPostgresRepository(db dbx.DBTX, kind models.TagKind) (*PostgresRepository, error) {
	s, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("tag kind %q: %w", kind, common.ErrUnknownOption)
	}
	return &PostgresRepository{db: db, s: s}, nil
}

func (r *PostgresRepository) ListTagIDs(ctx context.Context, userID string) ([]int64, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM %s
		 WHERE user_id = $1
		 ORDER BY %s
		 `, r.s.column, r.s.table, r.s.column)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return ids, nil
}

func (r *PostgresRepository) Add(ctx context.Context, userID string, tagID int64) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (user_id, %s)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `, r.s.table, r.s.column)

	if _, err := r.db.ExecContext(ctx, query, userID, tagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID string, tagID int64) error {
	query := fmt.Sprintf(
		`DELETE FROM %s
		 WHERE user_id = $1 AND %s = $2
		 `, r.s.table, r.s.column)

	if _, err := r.db.ExecContext(ctx, query, userID, tagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
