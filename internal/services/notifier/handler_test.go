package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dtpt/matchday/internal/checker"
	"github.com/dtpt/matchday/internal/domain/events"
	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/topic"
	"github.com/dtpt/matchday/internal/domain/user"
	"github.com/dtpt/matchday/internal/due"
)

var errStubNotFound = errors.New("not found")

type userRepoStub struct{ users map[uuid.UUID]*user.User }

func (s *userRepoStub) List(context.Context) ([]*user.User, error) {
	out := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}
func (s *userRepoStub) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errStubNotFound
	}
	return u, nil
}

type subRepoStub struct {
	subs    map[uuid.UUID]*subscription.Subscription
	updated []*subscription.Subscription
}

func (s *subRepoStub) List(context.Context) ([]*subscription.Subscription, error) { return nil, nil }
func (s *subRepoStub) GetByID(_ context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	sub, ok := s.subs[id]
	if !ok {
		return nil, errStubNotFound
	}
	return sub, nil
}
func (s *subRepoStub) Update(_ context.Context, sub *subscription.Subscription) error {
	s.updated = append(s.updated, sub)
	return nil
}

type topicRepoStub struct{ topics map[uuid.UUID]*topic.Topic }

func (s *topicRepoStub) GetByID(_ context.Context, id uuid.UUID) (*topic.Topic, error) {
	t, ok := s.topics[id]
	if !ok {
		return nil, errStubNotFound
	}
	return t, nil
}

type senderSpy struct {
	sent []notification.Message
	err  error
}

func (s *senderSpy) Send(_ context.Context, m notification.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, m)
	return nil
}

type storeSpy struct{ created []*notification.Notification }

func (s *storeSpy) Create(_ context.Context, n *notification.Notification) error {
	s.created = append(s.created, n)
	return nil
}
func (s *storeSpy) ListByUser(context.Context, uuid.UUID, int) ([]*notification.Notification, error) {
	return nil, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type handlerFixture struct {
	h      *Handler
	sub    *subscription.Subscription
	subs   *subRepoStub
	sender *senderSpy
	store  *storeSpy
	digest events.DueDigest
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	u, err := user.New(uuid.New(), "fan@example.com", "America/New_York")
	require.NoError(t, err)

	topicID := uuid.New()
	tp := &topic.Topic{ID: topicID, Events: []topic.Event{
		topic.SportsEvent{
			ID:       uuid.New(),
			StartUTC: time.Date(2026, 1, 16, 0, 30, 0, 0, time.UTC),
			TeamName: "Celtics",
			Opponent: "Raptors",
		},
	}}

	sub := &subscription.Subscription{
		ID:       uuid.New(),
		UserID:   u.ID,
		TopicID:  topicID,
		Schedule: subscription.FixedSchedule(9*3600 + 30*60),
		Enabled:  true,
	}

	subs := &subRepoStub{subs: map[uuid.UUID]*subscription.Subscription{sub.ID: sub}}
	sender := &senderSpy{}
	store := &storeSpy{}

	h := NewHandler(
		&userRepoStub{users: map[uuid.UUID]*user.User{u.ID: u}},
		subs,
		checker.New(&topicRepoStub{topics: map[uuid.UUID]*topic.Topic{topicID: tp}}),
		sender,
		store,
		nil,
		zap.NewNop(),
	)
	h.Clock = fixedClock{at: time.Date(2026, 1, 15, 14, 30, 5, 0, time.UTC)}

	return &handlerFixture{
		h:      h,
		sub:    sub,
		subs:   subs,
		sender: sender,
		store:  store,
		digest: events.DueDigest{
			SubscriptionID: sub.ID,
			UserID:         u.ID,
			TopicID:        topicID,
			TargetDate:     due.LocalDate("2026-01-15"),
			At:             time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC),
		},
	}
}

func TestHandleDueDigest_SendsAndRecords(t *testing.T) {
	f := newHandlerFixture(t)

	require.NoError(t, f.h.HandleDueDigest(context.Background(), f.digest))

	require.Len(t, f.sender.sent, 1)
	m := f.sender.sent[0]
	assert.Equal(t, notification.ChannelEmail, m.Channel)
	assert.Equal(t, "fan@example.com", m.To)
	assert.Equal(t, "Celtics vs. Raptors, 7:30 PM EST", m.Subject)
	assert.Equal(t, "Celtics play today.\n\n- Celtics vs. Raptors at 7:30 PM EST", m.Body)

	require.Len(t, f.subs.updated, 1)
	require.NotNil(t, f.subs.updated[0].LastSentAt)
	assert.Equal(t, time.Date(2026, 1, 15, 14, 30, 5, 0, time.UTC), f.subs.updated[0].LastSentAt.UTC())

	require.Len(t, f.store.created, 1)
	n := f.store.created[0]
	assert.Equal(t, f.sub.ID, n.SubscriptionID)
	assert.Equal(t, m.Subject, n.Subject)
	assert.Equal(t, m.Body, n.Payload)
}

func TestHandleDueDigest_DisabledDropsSilently(t *testing.T) {
	f := newHandlerFixture(t)
	f.sub.Enabled = false

	require.NoError(t, f.h.HandleDueDigest(context.Background(), f.digest))
	assert.Empty(t, f.sender.sent)
	assert.Empty(t, f.store.created)
}

func TestHandleDueDigest_AlreadySentDrops(t *testing.T) {
	f := newHandlerFixture(t)
	sent := f.digest.At.Add(-time.Hour)
	f.sub.LastSentAt = &sent

	require.NoError(t, f.h.HandleDueDigest(context.Background(), f.digest))
	assert.Empty(t, f.sender.sent)
	assert.Empty(t, f.subs.updated)
}

func TestHandleDueDigest_NoEventsAtDeliveryDrops(t *testing.T) {
	f := newHandlerFixture(t)
	f.digest.TargetDate = due.LocalDate("2026-01-17")

	require.NoError(t, f.h.HandleDueDigest(context.Background(), f.digest))
	assert.Empty(t, f.sender.sent)
}

func TestHandleDueDigest_SendFailureSurfaces(t *testing.T) {
	f := newHandlerFixture(t)
	f.sender.err = errors.New("smtp down")

	err := f.h.HandleDueDigest(context.Background(), f.digest)
	require.Error(t, err)
	assert.Empty(t, f.subs.updated)
	assert.Empty(t, f.store.created)
}

func TestHandleDueDigest_UnknownSubscriptionErrors(t *testing.T) {
	f := newHandlerFixture(t)
	f.digest.SubscriptionID = uuid.New()

	err := f.h.HandleDueDigest(context.Background(), f.digest)
	require.ErrorIs(t, err, errStubNotFound)
}
