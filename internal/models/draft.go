package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/onboard/internal/common"
)

const (
	MaxPhotos     = 6
	MaxPhotoBytes = 5 << 20
	MaxInterests  = 5
	MaxClubs      = 3
)

// ProfileDraft is the mutable profile a single wizard session edits.
// Mutators keep the draft limits; nothing here is safe for concurrent use.
type ProfileDraft struct {
	Name              string
	ClassYear         string
	Major             string
	Bio               string
	ContactPreference ContactPreference
	Photos            []*Photo
	Gender            Gender
	GenderPreference  GenderPreference
	VibeID            string
	// Interests and Clubs keep selection order for display.
	Interests []string
	Clubs     []string
	Building  *Building
}

func NewProfileDraft() *ProfileDraft {
	return &ProfileDraft{
		ContactPreference: ContactEmail,
		GenderPreference:  PreferEveryone,
	}
}

func (d *ProfileDraft) AddPhoto(p *Photo) error {
	if len(d.Photos) >= MaxPhotos {
		return fmt.Errorf("%w: at most %d photos", common.ErrPhotoLimit, MaxPhotos)
	}
	if p.Size() == 0 {
		return fmt.Errorf("%w: photo %q is empty", common.ErrValidation, p.Name)
	}
	if p.Size() > MaxPhotoBytes {
		return fmt.Errorf("%w: photo %q is %d bytes, limit is %d", common.ErrPhotoTooLarge, p.Name, p.Size(), MaxPhotoBytes)
	}
	d.Photos = append(d.Photos, p)
	return nil
}

// RemovePhoto drops the photo at index i and releases it.
func (d *ProfileDraft) RemovePhoto(i int) error {
	if i < 0 || i >= len(d.Photos) {
		return fmt.Errorf("%w: no photo #%d", common.ErrUnknownOption, i+1)
	}
	d.Photos[i].Release()
	d.Photos = slices.Delete(d.Photos, i, i+1)
	return nil
}

// ReleasePhotos releases every photo's resources without removing them.
func (d *ProfileDraft) ReleasePhotos() {
	for _, p := range d.Photos {
		p.Release()
	}
}

// ToggleInterest selects name, or deselects it when already selected.
// It reports whether name is selected afterwards.
func (d *ProfileDraft) ToggleInterest(name string) (bool, error) {
	return toggle(&d.Interests, name, MaxInterests)
}

func (d *ProfileDraft) ToggleClub(name string) (bool, error) {
	return toggle(&d.Clubs, name, MaxClubs)
}

// Tags returns the selection for kind.
func (d *ProfileDraft) Tags(kind TagKind) []string {
	if kind == TagClub {
		return d.Clubs
	}
	return d.Interests
}

func (d *ProfileDraft) SelectVibe(id string) error {
	if _, ok := LookupVibe(id); !ok {
		return fmt.Errorf("%w: vibe %q", common.ErrUnknownOption, id)
	}
	d.VibeID = id
	return nil
}

// Vibe returns the selected catalog entry, if any.
func (d *ProfileDraft) Vibe() (Vibe, bool) {
	return LookupVibe(d.VibeID)
}

func (d *ProfileDraft) SetBuilding(b Building) {
	d.Building = &b
}

func toggle(set *[]string, name string, limit int) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, fmt.Errorf("%w: empty name", common.ErrValidation)
	}
	if i := slices.Index(*set, name); i >= 0 {
		*set = slices.Delete(*set, i, i+1)
		return false, nil
	}
	if len(*set) >= limit {
		return false, fmt.Errorf("%w: at most %d", common.ErrTagLimit, limit)
	}
	*set = append(*set, name)
	return true, nil
}
