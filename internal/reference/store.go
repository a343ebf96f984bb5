package reference

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// StoreLoader runs the three list queries concurrently; the first failure
// cancels the rest.
type StoreLoader struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewStoreLoader(db *sql.DB, repos repomanager.RepositoryManager) *StoreLoader {
	return &StoreLoader{db: db, repos: repos}
}

func (l *StoreLoader) Load(ctx context.Context) (*Options, error) {
	interests, err := l.repos.Tags(l.db, models.TagInterest)
	if err != nil {
		return nil, err
	}
	clubs, err := l.repos.Tags(l.db, models.TagClub)
	if err != nil {
		return nil, err
	}

	opts := &Options{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		names, err := interests.ListNames(gctx)
		opts.Interests = names
		return err
	})
	g.Go(func() error {
		names, err := clubs.ListNames(gctx)
		opts.Clubs = names
		return err
	})
	g.Go(func() error {
		list, err := l.repos.Buildings(l.db).List(gctx)
		opts.Buildings = list
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return opts, nil
}
