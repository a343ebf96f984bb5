package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/onboard/internal/auth"
	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/config"
	"github.com/dmitrijs2005/onboard/internal/events"
	"github.com/dmitrijs2005/onboard/internal/logging"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/photos"
	"github.com/dmitrijs2005/onboard/internal/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// Committer turns a finished draft into a persisted, complete profile:
// photos are uploaded best-effort, the profile is upserted by auth identity,
// then interests and clubs are reconciled in that order.
//
// A commit may be repeated safely. Each of the upsert and the two reconcile
// steps is idempotent on its own, but they are not joined atomically: a
// reconcile failure leaves the profile saved with profile_complete set.
type Committer struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	reconciler  *Reconciler
	uploader    photos.Uploader
	publisher   events.Publisher
	logger      logging.Logger

	defaultRole       string
	uploadTimeout     time.Duration
	uploadConcurrency int
	now               func() time.Time
}

func NewCommitter(db *sql.DB, m repomanager.RepositoryManager, uploader photos.Uploader,
	publisher events.Publisher, cfg *config.Config, logger logging.Logger) *Committer {
	return &Committer{
		db:                db,
		repomanager:       m,
		reconciler:        NewReconciler(db, m),
		uploader:          uploader,
		publisher:         publisher,
		logger:            logger,
		defaultRole:       cfg.DefaultRole,
		uploadTimeout:     cfg.UploadTimeout,
		uploadConcurrency: cfg.UploadConcurrency,
		now:               time.Now,
	}
}

func (c *Committer) Commit(ctx context.Context, draft *models.ProfileDraft, identity *auth.Identity) (*models.Profile, error) {
	if identity == nil || identity.Subject == "" {
		return nil, common.ErrNotAuthenticated
	}
	if draft == nil {
		return nil, fmt.Errorf("%w: empty draft", common.ErrValidation)
	}

	logger := c.logger.With("auth_id", identity.Subject)

	urls := c.uploadPhotos(ctx, logger, draft.Photos)

	profile, err := c.upsert(ctx, buildProfile(draft, identity, urls))
	if err != nil {
		return nil, err
	}

	for _, kind := range models.TagKinds {
		if err := c.reconciler.Reconcile(ctx, profile.ID, kind, draft.Tags(kind)); err != nil {
			logger.Error(ctx, "reconcile failed", "profile_id", profile.ID, "kind", string(kind), logging.Err(err))
			return nil, err
		}
	}

	logger.Info(ctx, "profile committed", "profile_id", profile.ID, "photos", len(urls))

	ev := events.ProfileCompleted{ProfileID: profile.ID, AuthID: profile.AuthID, CompletedAt: c.now().UTC()}
	if err := c.publisher.PublishProfileCompleted(ctx, ev); err != nil {
		logger.Warn(ctx, "profile completed event not published", logging.Err(err))
	}

	return profile, nil
}

// uploadPhotos gives every photo exactly one upload attempt. Failures are
// logged and the photo is left out; the returned URLs follow draft order and
// the result is nil when nothing was uploaded.
func (c *Committer) uploadPhotos(ctx context.Context, logger logging.Logger, list []*models.Photo) []string {
	if len(list) == 0 {
		return nil
	}

	results := make([]string, len(list))

	var g errgroup.Group
	if c.uploadConcurrency > 0 {
		g.SetLimit(c.uploadConcurrency)
	}

	for i, p := range list {
		g.Go(func() error {
			uctx := ctx
			if c.uploadTimeout > 0 {
				var cancel context.CancelFunc
				uctx, cancel = context.WithTimeout(ctx, c.uploadTimeout)
				defer cancel()
			}

			url, err := c.uploader.Upload(uctx, p)
			if err != nil {
				logger.Warn(ctx, "photo upload failed", "index", i, "name", p.Name, logging.Err(err))
				return nil
			}
			results[i] = url
			return nil
		})
	}
	_ = g.Wait()

	var urls []string
	for _, u := range results {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func buildProfile(draft *models.ProfileDraft, identity *auth.Identity, urls []string) *models.Profile {
	p := &models.Profile{
		AuthID:            identity.Subject,
		Email:             identity.Email,
		Name:              draft.Name,
		ClassYear:         draft.ClassYear,
		Major:             draft.Major,
		Bio:               draft.Bio,
		ContactPreference: string(draft.ContactPreference),
		Gender:            string(draft.Gender),
		GenderPreference:  string(draft.GenderPreference),
		PhotoURLs:         urls,
		ProfileComplete:   true,
	}
	if v, ok := draft.Vibe(); ok {
		p.Vibe = v.Label
	}
	if b := draft.Building; b != nil {
		p.Location = b.Name
		p.Latitude = b.Latitude
		p.Longitude = b.Longitude
	}
	return p
}

// upsert updates the record keyed by the auth identity or inserts it with
// the default role. A concurrent first insert is retried as an update.
func (c *Committer) upsert(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	repo := c.repomanager.Profiles(c.db)

	_, err := repo.GetByAuthID(ctx, p.AuthID)
	switch {
	case err == nil:
		saved, err := repo.Update(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%w: update profile: %w", common.ErrStore, err)
		}
		return saved, nil
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("%w: find profile: %w", common.ErrStore, err)
	}

	p.Role = c.defaultRole
	saved, err := repo.Create(ctx, p)
	if errors.Is(err, common.ErrAlreadyExists) {
		saved, err = repo.Update(ctx, p)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create profile: %w", common.ErrStore, err)
	}
	return saved, nil
}
