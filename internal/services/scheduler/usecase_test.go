package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dtpt/matchday/internal/checker"
	"github.com/dtpt/matchday/internal/domain/events"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/topic"
	"github.com/dtpt/matchday/internal/domain/user"
)

type userRepoStub struct{ users []*user.User }

func (s *userRepoStub) List(context.Context) ([]*user.User, error) { return s.users, nil }
func (s *userRepoStub) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errNotFound
}

var errNotFound = &notFoundErr{}

type notFoundErr struct{}

func (*notFoundErr) Error() string { return "not found" }

type subRepoStub struct{ subs []*subscription.Subscription }

func (s *subRepoStub) List(context.Context) ([]*subscription.Subscription, error) {
	return s.subs, nil
}
func (s *subRepoStub) GetByID(_ context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	for _, sub := range s.subs {
		if sub.ID == id {
			return sub, nil
		}
	}
	return nil, errNotFound
}
func (s *subRepoStub) Update(context.Context, *subscription.Subscription) error { return nil }

type topicRepoStub struct{ topics map[uuid.UUID]*topic.Topic }

func (s *topicRepoStub) GetByID(_ context.Context, id uuid.UUID) (*topic.Topic, error) {
	t, ok := s.topics[id]
	if !ok {
		return nil, errNotFound
	}
	return t, nil
}

type publisherSpy struct{ digests []events.DueDigest }

func (p *publisherSpy) PublishDueDigest(_ context.Context, d events.DueDigest) error {
	p.digests = append(p.digests, d)
	return nil
}

// fixture: a NY user whose team plays Jan 15 at 7:30 PM EST, with a fixed
// 09:30 local schedule. "now" is 14:30 UTC = 09:30 EST.
type tickFixture struct {
	user  *user.User
	sub   *subscription.Subscription
	topic *topic.Topic
	now   time.Time
}

func newTickFixture(t *testing.T) tickFixture {
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

	return tickFixture{
		user:  u,
		sub:   sub,
		topic: tp,
		now:   time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC),
	}
}

func newUsecase(f tickFixture, pub *publisherSpy) *Usecase {
	uc := NewUC(
		&userRepoStub{users: []*user.User{f.user}},
		&subRepoStub{subs: []*subscription.Subscription{f.sub}},
		checker.New(&topicRepoStub{topics: map[uuid.UUID]*topic.Topic{f.topic.ID: f.topic}}),
		pub,
		nil,
		zap.NewNop(),
	)
	uc.Clock = func() time.Time { return f.now }
	return uc
}

func TestTick_PublishesDueDigest(t *testing.T) {
	f := newTickFixture(t)
	pub := &publisherSpy{}

	evaluated, published, errs, err := newUsecase(f, pub).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, evaluated)
	assert.Equal(t, 1, published)
	assert.Equal(t, 0, errs)

	require.Len(t, pub.digests, 1)
	d := pub.digests[0]
	assert.Equal(t, f.sub.ID, d.SubscriptionID)
	assert.Equal(t, f.user.ID, d.UserID)
	assert.Equal(t, f.topic.ID, d.TopicID)
	assert.Equal(t, "2026-01-15", string(d.TargetDate))
}

func TestTick_SkipsDisabled(t *testing.T) {
	f := newTickFixture(t)
	f.sub.Enabled = false
	pub := &publisherSpy{}

	evaluated, published, _, err := newUsecase(f, pub).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, evaluated)
	assert.Equal(t, 0, published)
	assert.Empty(t, pub.digests)
}

func TestTick_SkipsRelativeSchedules(t *testing.T) {
	f := newTickFixture(t)
	f.sub.Schedule = subscription.RelativeSchedule(-3600)
	pub := &publisherSpy{}

	evaluated, published, errs, err := newUsecase(f, pub).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, evaluated)
	assert.Equal(t, 0, published)
	assert.Equal(t, 0, errs)
}

func TestTick_DedupesSameLocalDay(t *testing.T) {
	f := newTickFixture(t)
	sent := f.now.Add(-30 * time.Minute)
	f.sub.LastSentAt = &sent
	pub := &publisherSpy{}

	_, published, _, err := newUsecase(f, pub).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
}

func TestTick_NotDueOutsideTolerance(t *testing.T) {
	f := newTickFixture(t)
	f.now = f.now.Add(5 * time.Minute)
	pub := &publisherSpy{}

	_, published, _, err := newUsecase(f, pub).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
}

func TestTick_NoMatchingEventsNoPublish(t *testing.T) {
	f := newTickFixture(t)
	f.topic.Events = []topic.Event{
		topic.SportsEvent{
			ID:       uuid.New(),
			StartUTC: time.Date(2026, 1, 20, 0, 30, 0, 0, time.UTC),
			TeamName: "Celtics",
			Opponent: "Raptors",
		},
	}
	pub := &publisherSpy{}

	_, published, _, err := newUsecase(f, pub).Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, published)
}
