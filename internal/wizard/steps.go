// Package wizard drives the onboarding flow: a fixed, linear sequence of steps
// each guarded by a validation gate, ending in a profile commit.
package wizard

import (
	"fmt"

	"github.com/dmitrijs2005/onboard/internal/common"
	"github.com/dmitrijs2005/onboard/internal/models"
	"github.com/dmitrijs2005/onboard/internal/reference"
)

type Step int

const (
	StepBasics Step = iota
	StepPhotos
	StepGender
	StepInterests
	StepLocation
	StepReview
)

func (s Step) String() string {
	if r, ok := row(s); ok {
		return r.name
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// gate returns the first violated rule, or "" when the step may advance.
type gate func(d *models.ProfileDraft, opts *reference.Options) string

type transition struct {
	step Step
	name string
	gate gate
	// last marks the step whose forward transition commits instead of advancing.
	last bool
}

// steps is the flow in order. Inserting a step is a matter of adding a row;
// forward and back follow row order.
var steps = []transition{
	{step: StepBasics, name: "Basics", gate: basicsGate},
	{step: StepPhotos, name: "Photos", gate: photosGate},
	{step: StepGender, name: "Gender", gate: genderGate},
	{step: StepInterests, name: "Interests", gate: interestsGate},
	{step: StepLocation, name: "Location", gate: locationGate},
	{step: StepReview, name: "Review", last: true},
}

// Steps lists the flow in order.
func Steps() []Step {
	out := make([]Step, len(steps))
	for i, t := range steps {
		out[i] = t.step
	}
	return out
}

func row(s Step) (transition, bool) {
	for _, t := range steps {
		if t.step == s {
			return t, true
		}
	}
	return transition{}, false
}

func index(s Step) int {
	for i, t := range steps {
		if t.step == s {
			return i
		}
	}
	return -1
}

func basicsGate(d *models.ProfileDraft, _ *reference.Options) string {
	switch {
	case d.Name == "":
		return "name is required"
	case d.ClassYear == "":
		return "class year is required"
	case d.Major == "":
		return "major is required"
	}
	return ""
}

func photosGate(d *models.ProfileDraft, _ *reference.Options) string {
	if len(d.Photos) == 0 {
		return "add at least one photo"
	}
	return ""
}

func genderGate(d *models.ProfileDraft, _ *reference.Options) string {
	if d.Gender == "" {
		return "select a gender"
	}
	if _, ok := d.Vibe(); !ok {
		return "select a vibe"
	}
	return ""
}

func interestsGate(d *models.ProfileDraft, _ *reference.Options) string {
	if len(d.Interests) == 0 {
		return "select at least one interest"
	}
	if len(d.Clubs) == 0 {
		return "select at least one club"
	}
	return ""
}

func locationGate(d *models.ProfileDraft, opts *reference.Options) string {
	if d.Building == nil {
		return "select a building"
	}
	if opts != nil {
		if _, ok := opts.Building(d.Building.ID); !ok {
			return "selected building is no longer available"
		}
	}
	return ""
}

// ValidationError reports the first rule a step's gate found violated.
type ValidationError struct {
	Step Step
	Rule string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Rule)
}

func (e *ValidationError) Unwrap() error {
	return common.ErrValidation
}
