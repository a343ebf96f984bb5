package wizard

import (
	"context"
	"sync/atomic"

	"github.com/dmitrijs2005/onboard/internal/auth"
	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/logging"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/reference"
)

// Outcome tells the caller what a transition did.
type Outcome int

const (
	// Stayed: the transition was refused and the step is unchanged.
	Stayed Outcome = iota
	Advanced
	Retreated
	// Completed: the profile was committed. The machine accepts no more
	// transitions.
	Completed
	// Exited: back was requested from the first step; the caller decides
	// where to go.
	Exited
)

func (o Outcome) String() string {
	switch o {
	case Stayed:
		return "stayed"
	case Advanced:
		return "advanced"
	case Retreated:
		return "retreated"
	case Completed:
		return "completed"
	case Exited:
		return "exited"
	}
	return "unknown"
}

type Committer interface {
	Commit(ctx context.Context, draft *models.ProfileDraft, identity *auth.Identity) (*models.Profile, error)
}

// Machine holds the current step of one session. It is driven from a single
// control flow; the only guard it keeps is against re-entry while a commit
// is running.
type Machine struct {
	step      Step
	draft     *models.ProfileDraft
	options   *reference.Options
	committer Committer
	session   auth.SessionAccessor
	logger    logging.Logger

	committing atomic.Bool
	finished   atomic.Bool
	profile    *models.Profile
}

func NewMachine(draft *models.ProfileDraft, options *reference.Options, committer Committer,
	session auth.SessionAccessor, logger logging.Logger) *Machine {
	if options == nil {
		options = reference.Empty()
	}
	return &Machine{
		step:      steps[0].step,
		draft:     draft,
		options:   options,
		committer: committer,
		session:   session,
		logger:    logger,
	}
}

func (m *Machine) Step() Step                  { return m.step }
func (m *Machine) Draft() *models.ProfileDraft { return m.draft }
func (m *Machine) Committing() bool            { return m.committing.Load() }
func (m *Machine) Finished() bool              { return m.finished.Load() }

// Profile returns the committed record once the machine has completed.
func (m *Machine) Profile() *models.Profile { return m.profile }

// Forward runs the current step's gate and advances on success. From the
// last step it commits the draft; a failed commit leaves the machine on the
// last step so the user can retry.
func (m *Machine) Forward(ctx context.Context) (Outcome, error) {
	if err := m.guard(); err != nil {
		return Stayed, err
	}

	i := index(m.step)
	t := steps[i]
	if t.gate != nil {
		if rule := t.gate(m.draft, m.options); rule != "" {
			return Stayed, &ValidationError{Step: m.step, Rule: rule}
		}
	}

	if !t.last {
		m.step = steps[i+1].step
		m.logger.Debug(ctx, "wizard advanced", "step", m.step.String())
		return Advanced, nil
	}

	return m.commit(ctx)
}

// Back moves to the previous step without validation.
func (m *Machine) Back() (Outcome, error) {
	if err := m.guard(); err != nil {
		return Stayed, err
	}

	i := index(m.step)
	if i == 0 {
		return Exited, nil
	}
	m.step = steps[i-1].step
	return Retreated, nil
}

func (m *Machine) guard() error {
	if m.finished.Load() {
		return common.ErrWizardFinished
	}
	if m.committing.Load() {
		return common.ErrCommitInFlight
	}
	return nil
}

func (m *Machine) commit(ctx context.Context) (Outcome, error) {
	if !m.committing.CompareAndSwap(false, true) {
		return Stayed, common.ErrCommitInFlight
	}
	defer m.committing.Store(false)

	identity, ok := m.session.CurrentIdentity(ctx)
	if !ok {
		return Stayed, common.ErrNotAuthenticated
	}

	profile, err := m.committer.Commit(ctx, m.draft, identity)
	if err != nil {
		m.logger.Error(ctx, "commit failed", logging.Err(err))
		return Stayed, err
	}

	m.profile = profile
	m.finished.Store(true)
	m.logger.Info(ctx, "onboarding complete", "profile_id", profile.ID)
	return Completed, nil
}
