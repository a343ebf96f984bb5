// Package reference loads the read-only option lists a wizard session offers:
// interest names, club names and campus buildings, each ordered by name.
package reference

import (
	"context"

	"github.com/dmitrijs2005/onboard/internal/models"
)

type Options struct {
	Interests []string          `json:"interests"`
	Clubs     []string          `json:"clubs"`
	Buildings []models.Building `json:"buildings"`
}

// Empty returns options with empty, non-nil lists. Sessions fall back to it
// when loading fails.
func Empty() *Options {
	return &Options{Interests: []string{}, Clubs: []string{}, Buildings: []models.Building{}}
}

// Building returns the building with id, if present.
func (o *Options) Building(id int64) (models.Building, bool) {
	for _, b := range o.Buildings {
		if b.ID == id {
			return b, true
		}
	}
	return models.Building{}, false
}

type Loader interface {
	Load(ctx context.Context) (*Options, error)
}
