// Package photos pushes draft photos to the public asset host.
package photos

import (
	"context"

	"github.com/dmitrijs2005/onboard/internal/models"
)

// Uploader stores one photo and returns its public URL. Callers get exactly
// one attempt per photo; implementations must not retry.
type Uploader interface {
	Upload(ctx context.Context, photo *models.Photo) (string, error)
}
