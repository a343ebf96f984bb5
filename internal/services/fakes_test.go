package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/events"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/repositories/buildings"
	"github.com/dmitrijs2005/onboard/internal/repositories/links"
	"github.com/dmitrijs2005/onboard/internal/repositories/profiles"
	"github.com/dmitrijs2005/onboard/internal/repositories/tags"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

// fakeStore is an in-memory backing store shared by every fake repository a
// fakeRepoManager vends, so state survives across transactions.
type fakeStore struct {
	profiles    map[string]*models.Profile
	nextProfile int

	tags    map[models.TagKind]map[string]int64
	nextTag int64
	links   map[models.TagKind]map[string]map[int64]bool

	getErr    error
	createErr error
	updateErr error
	addErr    error

	// raceOnCreate makes the next tag Create lose a race: the tag appears
	// as if another session inserted it and Create reports a conflict.
	raceOnCreate bool

	tagCreates int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles: map[string]*models.Profile{},
		tags: map[models.TagKind]map[string]int64{
			models.TagInterest: {},
			models.TagClub:     {},
		},
		links: map[models.TagKind]map[string]map[int64]bool{
			models.TagInterest: {},
			models.TagClub:     {},
		},
	}
}

func (s *fakeStore) seedTag(kind models.TagKind, name string) int64 {
	s.nextTag++
	s.tags[kind][name] = s.nextTag
	return s.nextTag
}

func (s *fakeStore) linkedNames(kind models.TagKind, userID string) []string {
	names := []string{}
	for name, id := range s.tags[kind] {
		if s.links[kind][userID][id] {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

type fakeProfilesRepo struct{ s *fakeStore }

func (r *fakeProfilesRepo) GetByAuthID(_ context.Context, authID string) (*models.Profile, error) {
	if r.s.getErr != nil {
		return nil, r.s.getErr
	}
	p, ok := r.s.profiles[authID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfilesRepo) Create(_ context.Context, p *models.Profile) (*models.Profile, error) {
	if r.s.createErr != nil {
		return nil, r.s.createErr
	}
	if _, ok := r.s.profiles[p.AuthID]; ok {
		return nil, common.ErrAlreadyExists
	}
	r.s.nextProfile++
	p.ID = fmt.Sprintf("profile-%d", r.s.nextProfile)
	cp := *p
	r.s.profiles[p.AuthID] = &cp
	return p, nil
}

func (r *fakeProfilesRepo) Update(_ context.Context, p *models.Profile) (*models.Profile, error) {
	if r.s.updateErr != nil {
		return nil, r.s.updateErr
	}
	old, ok := r.s.profiles[p.AuthID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.ID, p.Role, p.CreatedAt = old.ID, old.Role, old.CreatedAt
	cp := *p
	r.s.profiles[p.AuthID] = &cp
	return p, nil
}

type fakeTagsRepo struct {
	s    *fakeStore
	kind models.TagKind
}

func (r *fakeTagsRepo) FindByName(_ context.Context, name string) (*models.Tag, error) {
	id, ok := r.s.tags[r.kind][name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Tag{ID: id, Name: name}, nil
}

func (r *fakeTagsRepo) Create(_ context.Context, name string) (*models.Tag, error) {
	if r.s.raceOnCreate {
		r.s.raceOnCreate = false
		r.s.seedTag(r.kind, name)
		return nil, common.ErrAlreadyExists
	}
	if _, ok := r.s.tags[r.kind][name]; ok {
		return nil, common.ErrAlreadyExists
	}
	r.s.tagCreates++
	id := r.s.seedTag(r.kind, name)
	return &models.Tag{ID: id, Name: name}, nil
}

func (r *fakeTagsRepo) ListNames(context.Context) ([]string, error) {
	names := []string{}
	for n := range r.s.tags[r.kind] {
		names = append(names, n)
	}
	slices.Sort(names)
	return names, nil
}

type fakeLinksRepo struct {
	s    *fakeStore
	kind models.TagKind
}

func (r *fakeLinksRepo) ListTagIDs(_ context.Context, userID string) ([]int64, error) {
	ids := []int64{}
	for id := range r.s.links[r.kind][userID] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *fakeLinksRepo) Add(_ context.Context, userID string, tagID int64) error {
	if r.s.addErr != nil {
		return r.s.addErr
	}
	if r.s.links[r.kind][userID] == nil {
		r.s.links[r.kind][userID] = map[int64]bool{}
	}
	r.s.links[r.kind][userID][tagID] = true
	return nil
}

func (r *fakeLinksRepo) Remove(_ context.Context, userID string, tagID int64) error {
	delete(r.s.links[r.kind][userID], tagID)
	return nil
}

type fakeRepoManager struct{ s *fakeStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository        { return &fakeProfilesRepo{s: m.s} }
func (m *fakeRepoManager) Buildings(dbx.DBTX) buildings.Repository      { return nil }

func (m *fakeRepoManager) Tags(_ dbx.DBTX, kind models.TagKind) (tags.Repository, error) {
	return &fakeTagsRepo{s: m.s, kind: kind}, nil
}

func (m *fakeRepoManager) Links(_ dbx.DBTX, kind models.TagKind) (links.Repository, error) {
	return &fakeLinksRepo{s: m.s, kind: kind}, nil
}

// fakeUploader maps photo names to URLs; unknown names fail.
type fakeUploader struct {
	mu    sync.Mutex
	urls  map[string]string
	calls []string
	// block makes uploads of these names wait for context cancellation.
	block map[string]bool
}

func (u *fakeUploader) Upload(ctx context.Context, p *models.Photo) (string, error) {
	u.mu.Lock()
	u.calls = append(u.calls, p.Name)
	url, ok := u.urls[p.Name]
	blocked := u.block[p.Name]
	u.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if !ok {
		return "", errors.New("asset host rejected " + p.Name)
	}
	return url, nil
}

type fakePublisher struct {
	events []events.ProfileCompleted
	err    error
}

func (p *fakePublisher) PublishProfileCompleted(_ context.Context, e events.ProfileCompleted) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
