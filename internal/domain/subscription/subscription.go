package subscription

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subscription ties a user to a topic with a delivery schedule. The core
// borrows it as an immutable snapshot; only LastSentAt is written back, by
// the caller, after a successful send.
type Subscription struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	TopicID    uuid.UUID  `json:"topic_id"`
	Schedule   Schedule   `json:"schedule"`
	Enabled    bool       `json:"enabled"`
	LastSentAt *time.Time `json:"last_sent_at"`
}

func (s *Subscription) Validate() error {
	if s.ID == uuid.Nil {
		return fmt.Errorf("id: must not be empty")
	}
	if s.UserID == uuid.Nil {
		return fmt.Errorf("user_id: must not be empty")
	}
	if s.TopicID == uuid.Nil {
		return fmt.Errorf("topic_id: must not be empty")
	}
	return s.Schedule.Validate()
}

type Repo interface {
	List(ctx context.Context) ([]*Subscription, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	Update(ctx context.Context, s *Subscription) error
}
