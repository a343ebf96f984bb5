package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/onboard/internal/auth"
	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/config"
	"github.com/dmitrijs2005/onboard/internal/dbx"
	"github.com/dmitrijs2005/onboard/internal/logging"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/repositories/profiles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)

func newCommitter(db *sql.DB, store *fakeStore, up *fakeUploader, pub *fakePublisher) *Committer {
	cfg := &config.Config{
		DefaultRole:       "member",
		UploadTimeout:     time.Second,
		UploadConcurrency: 2,
	}
	c := NewCommitter(db, &fakeRepoManager{s: store}, up, pub, cfg, logging.NewNop())
	c.now = func() time.Time { return fixedNow }
	return c
}

func alexDraft(t *testing.T) *models.ProfileDraft {
	t.Helper()
	d := models.NewProfileDraft()
	d.Name = "Alex"
	d.ClassYear = "2026"
	d.Major = "History"
	d.Gender = models.GenderFemale
	require.NoError(t, d.AddPhoto(&models.Photo{Name: "alex.jpg", ContentType: "image/jpeg", Data: make([]byte, 2<<20)}))
	require.NoError(t, d.SelectVibe("roam"))
	_, err := d.ToggleInterest("Hiking")
	require.NoError(t, err)
	_, err = d.ToggleClub("Debate")
	require.NoError(t, err)
	d.SetBuilding(models.Building{ID: 42, Name: "Firestone Library", Latitude: 40.343, Longitude: -74.651})
	return d
}

var alex = &auth.Identity{Subject: "auth-alex", Email: "alex@campus.edu"}

func TestCommit_AlexScenario(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	store := newFakeStore()
	up := &fakeUploader{urls: map[string]string{"alex.jpg": "https://cdn.campus.test/photos/alex"}}
	pub := &fakePublisher{}
	c := newCommitter(db, store, up, pub)

	p, err := c.Commit(context.Background(), alexDraft(t), alex)
	require.NoError(t, err)

	assert.True(t, p.ProfileComplete)
	assert.Equal(t, "Firestone Library", p.Location)
	assert.Equal(t, 40.343, p.Latitude)
	assert.Equal(t, -74.651, p.Longitude)
	assert.Equal(t, "Adventurer", p.Vibe)
	assert.Equal(t, "female", p.Gender)
	assert.Equal(t, "everyone", p.GenderPreference)
	assert.Equal(t, "email", p.ContactPreference)
	assert.Equal(t, "alex@campus.edu", p.Email)
	assert.Equal(t, "member", p.Role)
	assert.Equal(t, []string{"https://cdn.campus.test/photos/alex"}, p.PhotoURLs)
	assert.Equal(t, "https://cdn.campus.test/photos/alex", p.PrimaryPhotoURL())

	assert.Equal(t, []string{"Hiking"}, store.linkedNames(models.TagInterest, p.ID))
	assert.Equal(t, []string{"Debate"}, store.linkedNames(models.TagClub, p.ID))

	require.Len(t, pub.events, 1)
	assert.Equal(t, p.ID, pub.events[0].ProfileID)
	assert.Equal(t, "auth-alex", pub.events[0].AuthID)
	assert.Equal(t, fixedNow, pub.events[0].CompletedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_UploadFailureLeavesNullPhotos(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	store := newFakeStore()
	up := &fakeUploader{}
	c := newCommitter(db, store, up, &fakePublisher{})

	p, err := c.Commit(context.Background(), alexDraft(t), alex)
	require.NoError(t, err)
	assert.Nil(t, p.PhotoURLs)
	assert.Nil(t, store.profiles["auth-alex"].PhotoURLs)
	assert.True(t, p.ProfileComplete)
	assert.Equal(t, []string{"alex.jpg"}, up.calls, "exactly one attempt per photo")
}

func TestCommit_PartialUploadKeepsDraftOrder(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	d := alexDraft(t)
	for _, name := range []string{"b.jpg", "c.jpg", "d.jpg"} {
		require.NoError(t, d.AddPhoto(&models.Photo{Name: name, Data: []byte{1}}))
	}

	up := &fakeUploader{urls: map[string]string{
		"alex.jpg": "u-a",
		"c.jpg":    "u-c",
		"d.jpg":    "u-d",
	}}
	c := newCommitter(db, newFakeStore(), up, &fakePublisher{})
	c.uploadConcurrency = 4

	p, err := c.Commit(context.Background(), d, alex)
	require.NoError(t, err)
	assert.Equal(t, []string{"u-a", "u-c", "u-d"}, p.PhotoURLs)
	assert.Len(t, up.calls, 4)
}

func TestCommit_UploadTimeout(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	up := &fakeUploader{
		urls:  map[string]string{"alex.jpg": "never"},
		block: map[string]bool{"alex.jpg": true},
	}
	c := newCommitter(db, newFakeStore(), up, &fakePublisher{})
	c.uploadTimeout = 10 * time.Millisecond

	p, err := c.Commit(context.Background(), alexDraft(t), alex)
	require.NoError(t, err)
	assert.Nil(t, p.PhotoURLs)
}

func TestCommit_NotAuthenticated(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	up := &fakeUploader{}
	c := newCommitter(db, newFakeStore(), up, &fakePublisher{})

	_, err := c.Commit(context.Background(), alexDraft(t), nil)
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	_, err = c.Commit(context.Background(), alexDraft(t), &auth.Identity{})
	assert.ErrorIs(t, err, common.ErrNotAuthenticated)

	assert.Empty(t, up.calls)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_UpdatesExistingRecord(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	for range 4 {
		mock.ExpectBegin()
		mock.ExpectCommit()
	}

	store := newFakeStore()
	up := &fakeUploader{urls: map[string]string{"alex.jpg": "u-a"}}
	c := newCommitter(db, store, up, &fakePublisher{})

	first, err := c.Commit(context.Background(), alexDraft(t), alex)
	require.NoError(t, err)
	store.profiles["auth-alex"].Role = "moderator"

	d := alexDraft(t)
	d.Major = "Physics"
	_, err = d.ToggleInterest("Hiking")
	require.NoError(t, err)
	_, err = d.ToggleInterest("Jazz")
	require.NoError(t, err)

	second, err := c.Commit(context.Background(), d, alex)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "moderator", second.Role)
	assert.Equal(t, "Physics", store.profiles["auth-alex"].Major)
	assert.Len(t, store.profiles, 1)
	assert.Equal(t, []string{"Jazz"}, store.linkedNames(models.TagInterest, second.ID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_ConcurrentFirstInsertBecomesUpdate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	store := newFakeStore()
	store.profiles["auth-alex"] = &models.Profile{ID: "profile-early", AuthID: "auth-alex", Role: "member"}

	c := newCommitter(db, store, &fakeUploader{}, &fakePublisher{})
	repo := &racingProfiles{fakeProfilesRepo: fakeProfilesRepo{s: store}}
	c.repomanager = &racingRepoManager{fakeRepoManager: fakeRepoManager{s: store}, profiles: repo}

	p, err := c.Commit(context.Background(), alexDraft(t), alex)
	require.NoError(t, err)
	assert.Equal(t, "profile-early", p.ID)
}

// racingProfiles pretends the lookup ran before another session inserted
// the same identity.
type racingProfiles struct {
	fakeProfilesRepo
}

func (r *racingProfiles) GetByAuthID(context.Context, string) (*models.Profile, error) {
	return nil, common.ErrorNotFound
}

type racingRepoManager struct {
	fakeRepoManager
	profiles *racingProfiles
}

func (m *racingRepoManager) Profiles(dbx.DBTX) profiles.Repository { return m.profiles }

func TestCommit_StoreErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *fakeStore)
	}{
		{"lookup", func(s *fakeStore) { s.getErr = errors.New("conn refused") }},
		{"create", func(s *fakeStore) { s.createErr = errors.New("disk full") }},
		{"update", func(s *fakeStore) {
			s.profiles["auth-alex"] = &models.Profile{ID: "p1", AuthID: "auth-alex"}
			s.updateErr = errors.New("deadlock")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMockDB(t)
			defer db.Close()

			store := newFakeStore()
			tt.setup(store)
			pub := &fakePublisher{}
			c := newCommitter(db, store, &fakeUploader{}, pub)

			_, err := c.Commit(context.Background(), alexDraft(t), alex)
			assert.ErrorIs(t, err, common.ErrStore)
			assert.Empty(t, pub.events)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestCommit_ReconcileFailureKeepsProfile(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	store := newFakeStore()
	store.addErr = errors.New("fk violation")
	pub := &fakePublisher{}
	c := newCommitter(db, store, &fakeUploader{}, pub)

	_, err := c.Commit(context.Background(), alexDraft(t), alex)
	assert.ErrorIs(t, err, common.ErrStore)

	saved := store.profiles["auth-alex"]
	require.NotNil(t, saved)
	assert.True(t, saved.ProfileComplete)
	assert.Empty(t, pub.events)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommit_PublishFailureIsNotFatal(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	c := newCommitter(db, newFakeStore(), &fakeUploader{}, &fakePublisher{err: errors.New("broker down")})

	p, err := c.Commit(context.Background(), alexDraft(t), alex)
	require.NoError(t, err)
	assert.True(t, p.ProfileComplete)
}
