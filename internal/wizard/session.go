package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/onboard/internal/auth"
	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/geo"
	"github.com/dmitrijs2005/onboard/internal/logging"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/reference"
)

const NoticeOptionsUnavailable = "failed to load options"

// Session is one run of the wizard: the machine plus the reference data and
// location provider the steps need.
type Session struct {
	*Machine
	options *reference.Options
	locator geo.Locator
	logger  logging.Logger
	notice  string
}

// NewSession loads the option lists and starts a machine on a fresh draft.
// A load failure does not block the session: it proceeds with empty lists
// and Notice reports it.
func NewSession(ctx context.Context, loader reference.Loader, locator geo.Locator, committer Committer,
	accessor auth.SessionAccessor, logger logging.Logger) *Session {
	s := &Session{locator: locator, logger: logger}

	opts, err := loader.Load(ctx)
	if err != nil {
		logger.Warn(ctx, "reference data unavailable", logging.Err(err))
		opts = reference.Empty()
		s.notice = NoticeOptionsUnavailable
	}
	s.options = opts
	s.Machine = NewMachine(models.NewProfileDraft(), opts, committer, accessor, logger)
	return s
}

func (s *Session) Options() *reference.Options { return s.options }

// Notice returns the session-start notice, or "".
func (s *Session) Notice() string { return s.notice }

// Locate asks the locator for the current position and selects the nearest
// known building.
func (s *Session) Locate(ctx context.Context) (models.Building, error) {
	if err := s.guard(); err != nil {
		return models.Building{}, err
	}
	if s.locator == nil {
		return models.Building{}, common.ErrLocationUnsupported
	}

	pos, err := s.locator.CurrentPosition(ctx)
	if err != nil {
		return models.Building{}, err
	}

	candidates := make([]geo.Candidate, len(s.options.Buildings))
	for i, b := range s.options.Buildings {
		candidates[i] = geo.Candidate{ID: b.ID, Coordinate: geo.Coordinate{Latitude: b.Latitude, Longitude: b.Longitude}}
	}

	nearest, err := geo.Nearest(pos, candidates)
	if err != nil {
		return models.Building{}, err
	}

	b, _ := s.options.Building(nearest.ID)
	s.draft.SetBuilding(b)
	s.logger.Debug(ctx, "nearest building selected", "building_id", b.ID,
		"distance_m", geo.DistanceMeters(pos, nearest.Coordinate))
	return b, nil
}

// SelectBuilding picks a building manually. Only buildings from the loaded
// list are accepted.
func (s *Session) SelectBuilding(id int64) error {
	if err := s.guard(); err != nil {
		return err
	}
	b, ok := s.options.Building(id)
	if !ok {
		return fmt.Errorf("%w: building %d", common.ErrUnknownOption, id)
	}
	s.draft.SetBuilding(b)
	return nil
}

// Close releases the draft's photo data. It runs regardless of whether the
// session completed.
func (s *Session) Close() {
	s.draft.ReleasePhotos()
}

// Describe turns an error from a transition or collaborator into the single
// line shown to the user.
func Describe(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Rule
	case errors.Is(err, common.ErrNotAuthenticated):
		return "your session has expired, please sign in again"
	case errors.Is(err, common.ErrStore):
		return "we couldn't save your profile, please try again"
	case errors.Is(err, common.ErrCommitInFlight):
		return "still saving your profile"
	case errors.Is(err, common.ErrWizardFinished):
		return "onboarding is already complete"
	case errors.Is(err, common.ErrPermissionDenied):
		return "location permission denied, pick your building from the list"
	case errors.Is(err, common.ErrLocationUnsupported), errors.Is(err, common.ErrLocationUnavailable):
		return "couldn't determine your location, pick your building from the list"
	case errors.Is(err, common.ErrNoCandidates):
		return "no campus buildings are available"
	case errors.Is(err, common.ErrPhotoLimit):
		return fmt.Sprintf("you can add up to %d photos", models.MaxPhotos)
	case errors.Is(err, common.ErrPhotoTooLarge):
		return "that photo is larger than 5 MB"
	case errors.Is(err, common.ErrTagLimit), errors.Is(err, common.ErrUnknownOption), errors.Is(err, common.ErrValidation):
		return err.Error()
	}
	return "something went wrong: " + err.Error()
}
