package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtpt/matchday/internal/due"
)

// DueDigest announces that a subscription is due now and has at least one
// event on the target local date. Consumers reload fresh snapshots before
// delivering; the digest carries identities, not entity state.
type DueDigest struct {
	SubscriptionID uuid.UUID     `json:"subscription_id"`
	UserID         uuid.UUID     `json:"user_id"`
	TopicID        uuid.UUID     `json:"topic_id"`
	TargetDate     due.LocalDate `json:"target_date"`
	At             time.Time     `json:"at"`
}

type Publisher interface {
	PublishDueDigest(ctx context.Context, d DueDigest) error
}
