// Package links stores user↔tag associations for both tag kinds.
package links

import "context"

type Repository interface {
	ListTagIDs(ctx context.Context, userID string) ([]int64, error)
	Add(ctx context.Context, userID string, tagID int64) error
	Remove(ctx context.Context, userID string, tagID int64) error
}
