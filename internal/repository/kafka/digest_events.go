package kafka

import (
	"context"

	"github.com/dtpt/matchday/internal/domain/events"
)

type DigestEventsKafka struct {
	p *Producer
}

func NewDigestEventsKafka(p *Producer) *DigestEventsKafka { return &DigestEventsKafka{p: p} }

var _ events.Publisher = (*DigestEventsKafka)(nil)

func (e *DigestEventsKafka) PublishDueDigest(ctx context.Context, d events.DueDigest) error {
	return e.p.PublishJSON(ctx, KeyFromUUID(d.SubscriptionID), d)
}
