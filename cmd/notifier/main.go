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

	"github.com/dtpt/matchday/internal/checker"
	config "github.com/dtpt/matchday/internal/config/notifier"
	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/topic"
	"github.com/dtpt/matchday/internal/domain/user"
	"github.com/dtpt/matchday/internal/notify"
	"github.com/dtpt/matchday/internal/obs"
	"github.com/dtpt/matchday/internal/provider"
	"github.com/dtpt/matchday/internal/provider/resend"
	smtpprov "github.com/dtpt/matchday/internal/provider/smtp"
	filerepo "github.com/dtpt/matchday/internal/repository/file"
	kafkaRepo "github.com/dtpt/matchday/internal/repository/kafka"
	pg "github.com/dtpt/matchday/internal/repository/postgres"
	"github.com/dtpt/matchday/internal/services/notifier"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := flag.String("config", "config/notifier.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	l, err := obs.NewLogger(cfg.Log.AsLoggerConfig())
	if err != nil {
		log.Fatal(err)
	}
	l.Info("starting notifier",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("provider", cfg.Mail.Provider),
		zap.Any("kafka_in", cfg.In),
		zap.String("metrics_addr", cfg.Server.MetricsAddr),
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
		store  notification.Repo
		tx     notifier.Transactor
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
		store = pg.NewNotificationRepo(db)
		tx = pg.NewTransactor(db, l)
		health = func(hctx context.Context) error { return db.Pool.Ping(hctx) }
	default:
		fs := filerepo.New(cfg.Storage.Root)
		users = filerepo.Users{S: fs}
		subs = filerepo.Subscriptions{S: fs}
		topics = filerepo.Topics{S: fs}
		store = filerepo.Notifications{S: fs}
		tx = notifier.NopTransactor{}
		health = func(context.Context) error { return nil }
	}

	var out provider.Provider
	switch cfg.Mail.Provider {
	case "resend":
		client := resend.NewClient(resend.ClientConfig{
			APIKey:  cfg.Mail.Resend.APIKey,
			Timeout: cfg.Mail.Resend.Timeout,
		})
		out = resend.New(client, cfg.Mail.Resend.From, l)
	default:
		out = smtpprov.New(smtpprov.Config{
			Addr:          cfg.Mail.SMTP.Addr,
			From:          cfg.Mail.SMTP.From,
			User:          cfg.Mail.SMTP.User,
			Password:      cfg.Mail.SMTP.Password,
			UseTLS:        cfg.Mail.SMTP.UseTLS,
			Timeout:       cfg.Mail.SMTP.Timeout,
			SubjectPrefix: cfg.Mail.SMTP.SubjPrefix,
		}).WithLogger(l)
	}

	consumer := kafkaRepo.BootstrapConsumer(ctx, &kafkaRepo.ConsumerConfig{
		Brokers: cfg.In.Brokers,
		Topic:   cfg.In.Topic,
		GroupID: cfg.In.GroupID,
		Logger:  l,
	}, l)
	defer func() { _ = consumer.Close() }()

	ms := obs.BootstrapMetricsServer(cfg.Server.MetricsAddr, health, l)

	pipeline := notify.NewPipeline(out, l)
	handler := notifier.NewHandler(users, subs, checker.New(topics), pipeline, store, tx, l)
	ctrl := notifier.NewController(l, consumer, handler)

	errCh := make(chan error, 1)
	go func() { errCh <- ctrl.Run(ctx) }()

	l.Info("notifier started")

	select {
	case <-ctx.Done():
	case err = <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			l.Error("consumer error", zap.Error(err))
		}
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	l.Info("bye")
}
