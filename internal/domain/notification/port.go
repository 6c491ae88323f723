package notification

import (
	"context"

	"github.com/google/uuid"
)

type Repo interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*Notification, error)
}
