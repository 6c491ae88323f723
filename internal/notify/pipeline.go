package notify

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/obs/retry"
	"github.com/dtpt/matchday/internal/provider"
)

const (
	backoffBase = 250 * time.Millisecond
	maxRetries  = 2
)

// DeliveryPolicy is the pipeline's retry policy: 250ms exponential backoff,
// at most maxRetries retries after the first attempt, retrying only while
// the classifier marks the latest failure transient.
func DeliveryPolicy(log *zap.Logger) retry.Policy {
	return retry.Policy{
		Name:      "delivery",
		Attempts:  1 + maxRetries,
		Backoff:   retry.Expo{Base: backoffBase},
		Retryable: Retriable,
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("delivery attempt failed", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("delivery failed", zap.Error(err))
			}
		},
	}
}

// Pipeline sends formatted messages through a provider with failure-aware
// retry. One outbound call per attempt; the first terminal failure or
// retry exhaustion surfaces to the caller untouched.
type Pipeline struct {
	provider provider.Provider
	policy   retry.Policy
	log      *zap.Logger

	mSent   prometheus.Counter
	mFailed prometheus.Counter
}

func NewPipeline(p provider.Provider, log *zap.Logger) *Pipeline {
	return &Pipeline{
		provider: p,
		policy:   DeliveryPolicy(log),
		log:      log,
		mSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_delivery_sent_total",
			Help: "Messages accepted by the provider.",
		}),
		mFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_delivery_failed_total",
			Help: "Messages that failed after retries.",
		}),
	}
}

func (p *Pipeline) Send(ctx context.Context, msg notification.Message) error {
	err := retry.Do(ctx, func() error {
		return p.provider.Send(ctx, msg)
	}, p.policy)
	if err != nil {
		p.mFailed.Inc()
		return err
	}
	p.mSent.Inc()
	return nil
}
