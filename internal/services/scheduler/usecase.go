package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dtpt/matchday/internal/checker"
	"github.com/dtpt/matchday/internal/domain/events"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/user"
	"github.com/dtpt/matchday/internal/due"
	"github.com/dtpt/matchday/internal/obs"

	"github.com/google/uuid"
)

// Usecase walks every enabled subscription once per tick and publishes a
// due digest for each one that has matching events, has not been notified
// today, and whose local send time is within tolerance of now.
type Usecase struct {
	Users   user.Repo
	Subs    subscription.Repo
	Checker *checker.Checker
	Events  events.Publisher
	Limiter *rate.Limiter
	Clock   func() time.Time
	Log     *zap.Logger
}

func NewUC(users user.Repo, subs subscription.Repo, chk *checker.Checker, ev events.Publisher, limiter *rate.Limiter, log *zap.Logger) *Usecase {
	return &Usecase{
		Users:   users,
		Subs:    subs,
		Checker: chk,
		Events:  ev,
		Limiter: limiter,
		Clock:   time.Now,
		Log:     log,
	}
}

func (u *Usecase) Tick(ctx context.Context) (evaluated, published, errs int, err error) {
	tr := otel.Tracer("scheduler.uc")
	ctxTick, span := tr.Start(ctx, "scheduler.tick")
	defer span.End()

	now := u.Clock().UTC()

	users, err := u.Users.List(ctxTick)
	if err != nil {
		span.RecordError(err)
		return 0, 0, 1, fmt.Errorf("list users: %w", err)
	}
	byID := make(map[uuid.UUID]*user.User, len(users))
	for _, us := range users {
		byID[us.ID] = us
	}

	subs, err := u.Subs.List(ctxTick)
	if err != nil {
		span.RecordError(err)
		return 0, 0, 1, fmt.Errorf("list subscriptions: %w", err)
	}
	span.SetAttributes(attribute.Int("subscriptions.total", len(subs)))

	for _, sub := range subs {
		if !sub.Enabled {
			continue
		}
		evaluated++

		log := obs.WithTrace(ctxTick, u.Log).With(
			zap.String("subscription_id", sub.ID.String()),
		)

		owner, ok := byID[sub.UserID]
		if !ok {
			errs++
			log.Warn("subscription owner not found", zap.String("user_id", sub.UserID.String()))
			continue
		}

		if sub.Schedule.Kind != subscription.ScheduleFixed {
			log.Debug("relative schedule not yet deliverable, skipping")
			continue
		}

		pub, perr := u.evaluate(ctxTick, tr, owner, sub, now)
		if perr != nil {
			errs++
			log.Warn("evaluate subscription", zap.Error(perr))
			continue
		}
		if pub {
			published++
		}
	}

	span.SetAttributes(
		attribute.Int("subscriptions.evaluated", evaluated),
		attribute.Int("digests.published", published),
		attribute.Int("errors", errs),
	)
	return evaluated, published, errs, nil
}

func (u *Usecase) evaluate(ctx context.Context, tr trace.Tracer, owner *user.User, sub *subscription.Subscription, now time.Time) (bool, error) {
	ctx, span := tr.Start(ctx, "scheduler.evaluate",
		trace.WithAttributes(
			attribute.String("subscription.id", sub.ID.String()),
			attribute.String("topic.id", sub.TopicID.String()),
		),
	)
	defer span.End()

	loc := owner.Location()
	targetDate := due.LocalDateFromUTC(now, loc)

	matches, ok, err := u.Checker.Check(ctx, owner, sub, targetDate)
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("check topic: %w", err)
	}
	if !ok {
		span.SetAttributes(attribute.String("outcome", "no_match"))
		return false, nil
	}

	if due.AlreadySentToday(sub.LastSentAt, loc, now) {
		span.SetAttributes(attribute.String("outcome", "already_sent"))
		return false, nil
	}

	if !due.IsDue(sub, owner, now) {
		span.SetAttributes(attribute.String("outcome", "not_due"))
		return false, nil
	}

	if u.Limiter != nil {
		if err := u.Limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			return false, fmt.Errorf("rate limit: %w", err)
		}
	}

	d := events.DueDigest{
		SubscriptionID: sub.ID,
		UserID:         owner.ID,
		TopicID:        sub.TopicID,
		TargetDate:     targetDate,
		At:             now,
	}
	if err := u.Events.PublishDueDigest(ctx, d); err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("publish digest: %w", err)
	}
	span.SetAttributes(
		attribute.String("outcome", "published"),
		attribute.Int("events.matched", len(matches)),
	)
	return true, nil
}
