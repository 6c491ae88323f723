package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dtpt/matchday/internal/checker"
	config "github.com/dtpt/matchday/internal/config/scheduler"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/topic"
	"github.com/dtpt/matchday/internal/domain/user"
	"github.com/dtpt/matchday/internal/obs"
	filerepo "github.com/dtpt/matchday/internal/repository/file"
	kafkaRepo "github.com/dtpt/matchday/internal/repository/kafka"
	pg "github.com/dtpt/matchday/internal/repository/postgres"
	"github.com/dtpt/matchday/internal/services/scheduler"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := flag.String("config", "config/scheduler.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	l.Info("starting scheduler",
		zap.String("storage", cfg.Storage.Backend),
		zap.Any("kafka_out", cfg.Kafka),
		zap.String("metrics_addr", cfg.Sched.MetricsAddr),
	)

	otelCloser, err := obs.SetupOTel(ctx, cfg.OTEL.AsOTELConfig())
	if err != nil {
		l.Fatal("otel init", zap.Error(err))
	}
	defer func() { _ = otelCloser.Shutdown(context.Background()) }()

	var (
		users  user.Repo
		subs   subscription.Repo
		topics topic.Repo
		health func(context.Context) error
	)
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := pg.New(ctx, cfg.DB)
		if err != nil {
			l.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		users = pg.NewUserRepo(db)
		subs = pg.NewSubscriptionRepo(db)
		topics = pg.NewTopicRepo(db)
		health = func(hctx context.Context) error { return db.Pool.Ping(hctx) }
	default:
		store := filerepo.New(cfg.Storage.Root)
		users = filerepo.Users{S: store}
		subs = filerepo.Subscriptions{S: store}
		topics = filerepo.Topics{S: store}
		health = func(context.Context) error { return nil }
	}

	prod := kafkaRepo.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic).WithLogger(l)
	defer func() { _ = prod.Close() }()
	publisher := kafkaRepo.NewDigestEventsKafka(prod)

	ms := obs.BootstrapMetricsServer(cfg.Sched.MetricsAddr, health, l)

	limiter := rate.NewLimiter(rate.Limit(cfg.Sched.PublishRatePerSec), cfg.Sched.PublishBurst)
	uc := scheduler.NewUC(users, subs, checker.New(topics), publisher, limiter, l)
	runner := scheduler.New(l, uc, &cfg.Sched)

	errCh := make(chan error, 1)
	go func() { errCh <- runner.Run(ctx) }()

	l.Info("scheduler started")

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("runner error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
