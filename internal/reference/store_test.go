package reference

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoader_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT name FROM interests`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Hiking").AddRow("Jazz"))
	mock.ExpectQuery(`SELECT name FROM clubs`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Debate"))
	mock.ExpectQuery(`FROM buildings`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "latitude", "longitude"}).
			AddRow(int64(42), "Firestone", 40.343, -74.651))

	opts, err := NewStoreLoader(db, repomanager.NewPostgresRepositoryManager()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hiking", "Jazz"}, opts.Interests)
	assert.Equal(t, []string{"Debate"}, opts.Clubs)
	assert.Equal(t, []models.Building{{ID: 42, Name: "Firestone", Latitude: 40.343, Longitude: -74.651}}, opts.Buildings)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreLoader_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	mock.ExpectQuery(`SELECT name FROM interests`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectQuery(`SELECT name FROM clubs`).
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectQuery(`FROM buildings`).WillReturnError(errors.New("db down"))

	_, err = NewStoreLoader(db, repomanager.NewPostgresRepositoryManager()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestOptions_Building(t *testing.T) {
	opts := &Options{Buildings: []models.Building{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}}

	b, ok := opts.Building(2)
	require.True(t, ok)
	assert.Equal(t, "B", b.Name)

	_, ok = opts.Building(3)
	assert.False(t, ok)
}

func TestEmpty(t *testing.T) {
	e := Empty()
	assert.NotNil(t, e.Interests)
	assert.NotNil(t, e.Clubs)
	assert.NotNil(t, e.Buildings)
	assert.Empty(t, e.Buildings)
}
