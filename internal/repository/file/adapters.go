package file

import (
	"context"

	"github.com/google/uuid"

	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/topic"
	"github.com/dtpt/matchday/internal/domain/user"
)

// Adapters exposing the store through the domain repo ports.

type Users struct{ S *Store }

var _ user.Repo = Users{}

func (a Users) List(ctx context.Context) ([]*user.User, error) {
	return a.S.LoadUsers(ctx)
}

func (a Users) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	users, err := a.S.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, &NotFoundError{Path: "user " + id.String()}
}

type Subscriptions struct{ S *Store }

var _ subscription.Repo = Subscriptions{}

func (a Subscriptions) List(ctx context.Context) ([]*subscription.Subscription, error) {
	return a.S.LoadSubscriptions(ctx)
}

func (a Subscriptions) GetByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	subs, err := a.S.LoadSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, &NotFoundError{Path: "subscription " + id.String()}
}

func (a Subscriptions) Update(ctx context.Context, s *subscription.Subscription) error {
	return a.S.UpdateSubscription(ctx, s)
}

type Topics struct{ S *Store }

var _ topic.Repo = Topics{}

func (a Topics) GetByID(ctx context.Context, id uuid.UUID) (*topic.Topic, error) {
	return a.S.LoadTopic(ctx, id)
}

type Notifications struct{ S *Store }

var _ notification.Repo = Notifications{}

func (a Notifications) Create(ctx context.Context, n *notification.Notification) error {
	return a.S.AppendNotification(ctx, n)
}

func (a Notifications) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	return a.S.ListNotificationsByUser(ctx, userID, limit)
}
