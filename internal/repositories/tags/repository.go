// Package tags stores the interest and club catalogs. Both kinds share one
// schema shape and differ only by table.
package tags

import (
	"context"

	"github.com/dmitrijs2005/onboard/internal/models"
)

type Repository interface {
	FindByName(ctx context.Context, name string) (*models.Tag, error)
	Create(ctx context.Context, name string) (*models.Tag, error)
	ListNames(ctx context.Context) ([]string, error)
}
