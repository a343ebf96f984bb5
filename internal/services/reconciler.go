// Package services contains the onboarding commit logic: the association
// reconciler and the profile committer built on top of it.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/repositories/repomanager"
	"github.com/dmitrijs2005/onboard/internal/repositories/tags"
)

// Reconciler makes a user's associations of one tag kind exactly equal to a
// desired set of tag names, creating missing tags on the way.
type Reconciler struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReconciler(db *sql.DB, m repomanager.RepositoryManager) *Reconciler {
	return &Reconciler{db: db, repomanager: m}
}

// Reconcile runs in one transaction per call and only touches the delta:
// links for names no longer desired are removed, missing ones are added.
// Any failure rolls the whole kind back and is reported as common.ErrStore.
func (r *Reconciler) Reconcile(ctx context.Context, userID string, kind models.TagKind, desired []string) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		tagRepo, err := r.repomanager.Tags(tx, kind)
		if err != nil {
			return err
		}
		linkRepo, err := r.repomanager.Links(tx, kind)
		if err != nil {
			return err
		}

		want := make(map[int64]struct{}, len(desired))
		order := make([]int64, 0, len(desired))
		for _, name := range desired {
			tag, err := resolveTag(ctx, tagRepo, name)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", name, err)
			}
			if _, dup := want[tag.ID]; dup {
				continue
			}
			want[tag.ID] = struct{}{}
			order = append(order, tag.ID)
		}

		current, err := linkRepo.ListTagIDs(ctx, userID)
		if err != nil {
			return err
		}
		have := make(map[int64]struct{}, len(current))
		for _, id := range current {
			have[id] = struct{}{}
			if _, keep := want[id]; keep {
				continue
			}
			if err := linkRepo.Remove(ctx, userID, id); err != nil {
				return err
			}
		}

		for _, id := range order {
			if _, ok := have[id]; ok {
				continue
			}
			if err := linkRepo.Add(ctx, userID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: reconcile %s links: %w", common.ErrStore, kind, err)
	}
	return nil
}

// resolveTag finds name or creates it. When another session creates the same
// name first, the lookup is repeated once.
func resolveTag(ctx context.Context, repo tags.Repository, name string) (*models.Tag, error) {
	tag, err := repo.FindByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	tag, err = repo.Create(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, common.ErrAlreadyExists) {
		return nil, err
	}

	return repo.FindByName(ctx, name)
}
