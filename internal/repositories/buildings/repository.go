package buildings

import (
	"context"

	"github.com/dmitrijs2005/onboard/internal/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Building, error)
}
