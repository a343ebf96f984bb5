package profiles

import (
	"context"

	"github.com/dmitrijs2005/onboard/internal/models"
)

type Repository interface {
	GetByAuthID(ctx context.Context, authID string) (*models.Profile, error)
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) (*models.Profile, error)
}
