// Package checker selects, from a topic's event list, the events whose
// local start date equals a target local date.
package checker

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/topic"
	"github.com/dtpt/matchday/internal/domain/user"
	"github.com/dtpt/matchday/internal/due"
)

type Checker struct {
	topics topic.Repo
}

func New(topics topic.Repo) *Checker {
	return &Checker{topics: topics}
}

// Check loads the subscription's topic and returns the events whose local
// start date (in the user's zone) equals targetDate, ascending by start.
// The sort is stable, so events with equal starts keep their stored order.
// ok is false when nothing matches; a non-nil empty slice is never returned.
func (c *Checker) Check(ctx context.Context, u *user.User, sub *subscription.Subscription, targetDate due.LocalDate) (matches []topic.Event, ok bool, err error) {
	tr := otel.Tracer("checker")
	ctx, span := tr.Start(ctx, "checker.check",
		trace.WithAttributes(
			attribute.String("subscription.id", sub.ID.String()),
			attribute.String("topic.id", sub.TopicID.String()),
			attribute.String("target_date", string(targetDate)),
		),
	)
	defer span.End()

	t, err := c.topics.GetByID(ctx, sub.TopicID)
	if err != nil {
		span.RecordError(err)
		return nil, false, fmt.Errorf("load topic %s: %w", sub.TopicID, err)
	}

	loc := u.Location()
	for _, ev := range t.Events {
		if due.LocalDateFromUTC(ev.Start(), loc) == targetDate {
			matches = append(matches, ev)
		}
	}
	span.SetAttributes(attribute.Int("events.matched", len(matches)))
	if len(matches) == 0 {
		return nil, false, nil
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Start().Before(matches[j].Start())
	})
	return matches, true, nil
}
