package notifier

import (
	"context"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dtpt/matchday/internal/domain/events"
	kafkax "github.com/dtpt/matchday/internal/repository/kafka"
)

type Controller struct {
	Log *zap.Logger
	Sub *kafkax.Consumer
	UC  *Handler

	mHandled prometheus.Counter
	mDropped prometheus.Counter
	mErr     prometheus.Counter
}

func NewController(log *zap.Logger, sub *kafkax.Consumer, uc *Handler) *Controller {
	return &Controller{
		Log: log,
		Sub: sub,
		UC:  uc,
		mHandled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_notifier_digests_handled_total", Help: "Due digests processed",
		}),
		mDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_notifier_digests_dropped_total", Help: "Malformed digests dropped",
		}),
		mErr: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_notifier_errors_total", Help: "Digest handling errors",
		}),
	}
}

func (c *Controller) Run(ctx context.Context) error {
	handler := kafkax.JSONHandler(func(ctx context.Context, _ []byte, d *events.DueDigest) error {
		if d.SubscriptionID == uuid.Nil || d.UserID == uuid.Nil || d.TopicID == uuid.Nil {
			c.mDropped.Inc()
			c.Log.Warn("digest with missing ids, dropping",
				zap.String("subscription_id", d.SubscriptionID.String()),
			)
			return nil
		}
		if err := c.UC.HandleDueDigest(ctx, *d); err != nil {
			c.mErr.Inc()
			return err
		}
		c.mHandled.Inc()
		return nil
	})
	return c.Sub.Consume(ctx, handler)
}
