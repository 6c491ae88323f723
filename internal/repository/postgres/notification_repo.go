package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtpt/matchday/internal/domain/notification"
)

var _ notification.Repo = (*NotificationRepo)(nil)

type NotificationRepo struct{ db *DB }

func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

const (
	qNotifInsert = `
INSERT INTO notifications (subscription_id, user_id, channel, sent_at, subject, payload)
VALUES ($1, $2, $3, COALESCE($4, NOW()), $5, $6)
RETURNING id, sent_at;`

	qNotifByUser = `
SELECT id, subscription_id, user_id, channel, sent_at, subject, payload
FROM notifications
WHERE user_id = $1
ORDER BY sent_at DESC
LIMIT $2;`
)

// Create inserts a delivery log row; joins a caller transaction when one is
// bound to ctx.
func (r *NotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	eq := r.db.execQueryer(ctx)
	if err := eq.QueryRow(ctx, qNotifInsert,
		n.SubscriptionID,
		n.UserID,
		n.Channel,
		nullTime(n.SentAt),
		n.Subject,
		n.Payload,
	).Scan(&n.ID, &n.SentAt); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Pool.Query(ctx, qNotifByUser, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	out := make([]*notification.Notification, 0, limit)
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.SubscriptionID, &n.UserID, &n.Channel, &n.SentAt, &n.Subject, &n.Payload); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		nc := n
		out = append(out, &nc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
