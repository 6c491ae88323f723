package scheduler

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	config "github.com/dtpt/matchday/internal/config/scheduler"
)

type Runner struct {
	Log *zap.Logger
	UC  *Usecase
	Cfg *config.SchedCfg

	mEvaluated prometheus.Counter
	mPublished prometheus.Counter
	mErr       prometheus.Counter
	mLoopDur   prometheus.Histogram
}

func New(log *zap.Logger, uc *Usecase, cfg *config.SchedCfg) *Runner {
	return &Runner{
		Log: log,
		UC:  uc,
		Cfg: cfg,
		mEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_scheduler_subscriptions_evaluated_total", Help: "Enabled subscriptions evaluated",
		}),
		mPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_scheduler_digests_published_total", Help: "Due digests published to Kafka",
		}),
		mErr: promauto.NewCounter(prometheus.CounterOpts{
			Name: "matchday_scheduler_errors_total", Help: "Errors in scheduler loop",
		}),
		mLoopDur: promauto.NewHistogram(prometheus.HistogramOpts{
			Name: "matchday_scheduler_loop_duration_seconds", Help: "Scheduler tick duration",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (r *Runner) tick(ctx context.Context) {
	start := time.Now()
	evaluated, published, errs, err := r.UC.Tick(ctx)
	if err != nil {
		r.mErr.Inc()
		r.Log.Warn("tick error", zap.Error(err))
	}
	if evaluated > 0 {
		r.mEvaluated.Add(float64(evaluated))
		r.mPublished.Add(float64(published))
		if errs > 0 {
			r.mErr.Add(float64(errs))
		}
		r.Log.Debug("tick complete",
			zap.Int("evaluated", evaluated),
			zap.Int("published", published),
			zap.Int("errors", errs),
		)
	}
	r.mLoopDur.Observe(time.Since(start).Seconds())
}

func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Cfg.Tick)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}
