package links

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T, kind models.TagKind) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo, err := NewPostgresRepository(db, kind)
	require.NoError(t, err)
	return repo, mock, db
}

func TestNewPostgresRepository_UnknownKind(t *testing.T) {
	_, err := NewPostgresRepository(nil, "hobby")
	assert.ErrorIs(t, err, common.ErrUnknownOption)
}

func TestListTagIDs(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, models.TagInterest)
	defer db.Close()

	mock.ExpectQuery(`(?s)^SELECT\s+interest_id\s+FROM\s+user_interests\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"interest_id"}).AddRow(int64(1)).AddRow(int64(4)))

	got, err := repo.ListTagIDs(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 4}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTagIDs_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, models.TagInterest)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+user_interests`).WillReturnError(errors.New("db down"))

	_, err := repo.ListTagIDs(context.Background(), "u1")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestAdd_IgnoresConflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, models.TagClub)
	defer db.Close()

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_clubs\s*\(user_id,\s*club_id\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s+DO\s+NOTHING`).
		WithArgs("u1", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Add(context.Background(), "u1", 7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd_Error(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, models.TagClub)
	defer db.Close()

	mock.ExpectExec(`INSERT\s+INTO\s+user_clubs`).WillReturnError(errors.New("db down"))

	assert.Error(t, repo.Add(context.Background(), "u1", 7))
}

func TestRemove(t *testing.T) {
	repo, mock, db := newRepoWithMock(t, models.TagInterest)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+user_interests\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+interest_id\s*=\s*\$2`).
		WithArgs("u1", int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Remove(context.Background(), "u1", 2))
	require.NoError(t, mock.ExpectationsWereMet())
}
