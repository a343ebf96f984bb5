// Package events announces onboarding milestones to downstream consumers
// (matching, notifications).
package events

import (
	"context"
	"time"
)

// ProfileCompleted is emitted after a successful onboarding commit.
type ProfileCompleted struct {
	ProfileID   string    `json:"profile_id"`
	AuthID      string    `json:"auth_id"`
	CompletedAt time.Time `json:"completed_at"`
}

type Publisher interface {
	PublishProfileCompleted(ctx context.Context, e ProfileCompleted) error
	Close() error
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishProfileCompleted(context.Context, ProfileCompleted) error { return nil }

func (NopPublisher) Close() error { return nil }
