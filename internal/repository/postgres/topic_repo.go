package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtpt/matchday/internal/domain/topic"
)

var _ topic.Repo = (*TopicRepo)(nil)

type TopicRepo struct {
	db *DB
}

func NewTopicRepo(db *DB) *TopicRepo { return &TopicRepo{db: db} }

const (
	qTopicExists = `SELECT 1 FROM topics WHERE id = $1;`

	qEventsByTopic = `
SELECT id, kind, start_utc, team_name, opponent
FROM events
WHERE topic_id = $1
ORDER BY start_utc, id;`
)

func (r *TopicRepo) GetByID(ctx context.Context, id uuid.UUID) (*topic.Topic, error) {
	ctx, cancel := r.db.withTimeout(ctx)
	defer cancel()

	var one int
	if err := r.db.Pool.QueryRow(ctx, qTopicExists, id).Scan(&one); err != nil {
		return nil, ErrNotFound
	}

	rows, err := r.db.Pool.Query(ctx, qEventsByTopic, id)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	t := &topic.Topic{ID: id}
	for rows.Next() {
		var (
			eventID            uuid.UUID
			kind               string
			row                topic.SportsEvent
			teamName, opponent *string
		)
		if err := rows.Scan(&eventID, &kind, &row.StartUTC, &teamName, &opponent); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		switch topic.Kind(kind) {
		case topic.KindSports:
			row.ID = eventID
			if teamName != nil {
				row.TeamName = *teamName
			}
			if opponent != nil {
				row.Opponent = *opponent
			}
			if err := row.Validate(); err != nil {
				return nil, fmt.Errorf("event %s: %w", eventID, err)
			}
			t.Events = append(t.Events, row)
		default:
			return nil, fmt.Errorf("event %s: %w: %q", eventID, topic.ErrUnknownEventKind, kind)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return t, nil
}
