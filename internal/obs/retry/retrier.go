// Package retry runs an operation under an explicit attempt/backoff state
// machine: attempt count, last error, next wait. Policy decides which
// failures are worth another try.
package retry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/trace"
)

type Backoff interface {
	Next(attempt int) time.Duration
}

// Expo doubles Base on every attempt, optionally capped at Max.
type Expo struct {
	Base time.Duration
	Max  time.Duration
}

func (b Expo) Next(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		d = b.Max
	}
	return d
}

type Policy struct {
	Name      string
	Attempts  int
	Backoff   Backoff
	Retryable func(error) bool
	OnAttempt func(attempt int, err error)
	OnExhaust func(lastErr error)
}

var (
	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchday_retry_attempts_total",
		Help: "Attempts made (including the final one).",
	}, []string{"name"})
	exhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchday_retry_exhausted_total",
		Help: "Operations that surfaced a failure to the caller.",
	}, []string{"name"})
)

// Do runs fn until it succeeds, the policy marks a failure terminal, or
// attempts run out. Backoff waits abort on ctx cancellation without another
// attempt being made.
func Do(ctx context.Context, fn func() error, p Policy) error {
	name := p.Name
	if name == "" {
		name = "default"
	}
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = func(err error) bool { return err != nil }
	}

	var err error
	span := trace.SpanFromContext(ctx)

	for i := 0; i < attempts; i++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err = fn()
		attemptsTotal.WithLabelValues(name).Inc()
		if err == nil {
			return nil
		}
		if p.OnAttempt != nil {
			p.OnAttempt(i, err)
		}
		if span.IsRecording() {
			span.AddEvent("retry.attempt")
		}
		if !retryable(err) || i == attempts-1 {
			exhaustedTotal.WithLabelValues(name).Inc()
			if p.OnExhaust != nil {
				p.OnExhaust(err)
			}
			return err
		}

		t := time.NewTimer(p.Backoff.Next(i))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}
