// Package models defines the onboarding data: the in-memory ProfileDraft a
// wizard session edits and the records persisted in the store.
package models

import "time"

// Profile is the persisted user profile, keyed by the external AuthID.
type Profile struct {
	ID                string
	AuthID            string
	Email             string
	Role              string
	Name              string
	ClassYear         string
	Major             string
	Bio               string
	ContactPreference string
	Gender            string
	GenderPreference  string
	// Vibe holds the display label, not the vibe id.
	Vibe      string
	Location  string
	Latitude  float64
	Longitude float64
	// PhotoURLs is nil when no photo was uploaded.
	PhotoURLs       []string
	ProfileComplete bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PrimaryPhotoURL returns the first photo URL, which consumers treat as the
// profile picture.
func (p *Profile) PrimaryPhotoURL() string {
	if len(p.PhotoURLs) == 0 {
		return ""
	}
	return p.PhotoURLs[0]
}
