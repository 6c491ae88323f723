package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtpt/matchday/internal/domain/subscription"
)

var _ subscription.Repo = (*SubscriptionRepo)(nil)

type SubscriptionRepo struct {
	db *DB
}

func NewSubscriptionRepo(db *DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

const (
	qSubList = `
SELECT id, user_id, topic_id, schedule_kind, send_at_seconds_local, time_offset_seconds, enabled, last_sent_at
FROM subscriptions
ORDER BY id;`

	qSubByID = `
SELECT id, user_id, topic_id, schedule_kind, send_at_seconds_local, time_offset_seconds, enabled, last_sent_at
FROM subscriptions
WHERE id = $1;`

	qSubUpdate = `
UPDATE subscriptions
SET enabled = $2, last_sent_at = $3, updated_at = NOW()
WHERE id = $1;`
)

func (r *SubscriptionRepo) List(ctx context.Context) ([]*subscription.Subscription, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qSubList)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var out []*subscription.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (r *SubscriptionRepo) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	return scanSubscription(r.db.Pool.QueryRow(ctx, qSubByID, id))
}

// Update persists the mutable fields (enabled, last_sent_at). Joins a
// caller transaction when one is bound to ctx.
func (r *SubscriptionRepo) Update(ctx context.Context, s *subscription.Subscription) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	cmd, err := eq.Exec(ctx, qSubUpdate, s.ID, s.Enabled, s.LastSentAt)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var (
		s         subscription.Subscription
		kind      string
		sendAt    *int
		offsetSec *int
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.TopicID, &kind, &sendAt, &offsetSec, &s.Enabled, &s.LastSentAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan subscription: %w", err)
	}
	switch subscription.ScheduleKind(kind) {
	case subscription.ScheduleFixed:
		if sendAt == nil {
			return nil, fmt.Errorf("subscription %s: fixed schedule missing send_at_seconds_local", s.ID)
		}
		s.Schedule = subscription.FixedSchedule(*sendAt)
	case subscription.ScheduleRelative:
		if offsetSec == nil {
			return nil, fmt.Errorf("subscription %s: relative schedule missing time_offset_seconds", s.ID)
		}
		s.Schedule = subscription.RelativeSchedule(*offsetSec)
	default:
		return nil, fmt.Errorf("subscription %s: unknown schedule kind %q", s.ID, kind)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("subscription %s: %w", s.ID, err)
	}
	return &s, nil
}
