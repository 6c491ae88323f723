package notifier

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dtpt/matchday/internal/checker"
	"github.com/dtpt/matchday/internal/domain/events"
	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/domain/subscription"
	"github.com/dtpt/matchday/internal/domain/user"
	"github.com/dtpt/matchday/internal/due"
	"github.com/dtpt/matchday/internal/notify"
	"github.com/dtpt/matchday/internal/obs"
)

// Transactor runs fn atomically. The postgres backend provides a real
// implementation; the file backend uses NopTransactor.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Sender is the delivery pipeline as the handler sees it.
type Sender interface {
	Send(ctx context.Context, msg notification.Message) error
}

type NopTransactor struct{}

func (NopTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Handler turns a due digest into a delivered email. State may have moved
// since the digest was published, so it reloads snapshots and re-applies
// the dedupe and match gates before sending.
type Handler struct {
	Users   user.Repo
	Subs    subscription.Repo
	Checker *checker.Checker
	Out     Sender
	Store   notification.Repo
	Tx      Transactor
	Clock   notification.Clock
	Log     *zap.Logger
}

func NewHandler(
	users user.Repo,
	subs subscription.Repo,
	chk *checker.Checker,
	out Sender,
	store notification.Repo,
	tx Transactor,
	log *zap.Logger,
) *Handler {
	if tx == nil {
		tx = NopTransactor{}
	}
	return &Handler{
		Users:   users,
		Subs:    subs,
		Checker: chk,
		Out:     out,
		Store:   store,
		Tx:      tx,
		Clock:   realClock{},
		Log:     log,
	}
}

func (h *Handler) HandleDueDigest(ctx context.Context, d events.DueDigest) error {
	log := obs.WithTrace(ctx, h.Log).With(
		zap.String("subscription_id", d.SubscriptionID.String()),
		zap.String("user_id", d.UserID.String()),
	)

	sub, err := h.Subs.GetByID(ctx, d.SubscriptionID)
	if err != nil {
		return fmt.Errorf("get subscription: %w", err)
	}
	if !sub.Enabled {
		log.Info("subscription disabled since digest, dropping")
		return nil
	}

	owner, err := h.Users.GetByID(ctx, sub.UserID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	loc := owner.Location()

	if due.AlreadySentToday(sub.LastSentAt, loc, d.At) {
		log.Info("already notified today, dropping")
		return nil
	}

	matches, ok, err := h.Checker.Check(ctx, owner, sub, d.TargetDate)
	if err != nil {
		return fmt.Errorf("re-check topic: %w", err)
	}
	if !ok {
		log.Info("no matching events at delivery time, dropping")
		return nil
	}

	subject, err := notify.Subject(matches, loc)
	if err != nil {
		return fmt.Errorf("format subject: %w", err)
	}
	body, err := notify.Body(matches, loc)
	if err != nil {
		return fmt.Errorf("format body: %w", err)
	}

	msg := notification.Message{
		Channel: notification.ChannelEmail,
		To:      owner.Email,
		Subject: subject,
		Body:    body,
	}
	if err := h.Out.Send(ctx, msg); err != nil {
		return fmt.Errorf("deliver: %w", err)
	}

	sentAt := h.Clock.Now().UTC()
	err = h.Tx.WithTx(ctx, func(ctx context.Context) error {
		sub.LastSentAt = &sentAt
		if err := h.Subs.Update(ctx, sub); err != nil {
			return fmt.Errorf("update subscription: %w", err)
		}
		n := &notification.Notification{
			SubscriptionID: sub.ID,
			UserID:         owner.ID,
			Channel:        notification.ChannelEmail,
			SentAt:         sentAt,
			Subject:        subject,
			Payload:        body,
		}
		if err := h.Store.Create(ctx, n); err != nil {
			return fmt.Errorf("log notification: %w", err)
		}
		return nil
	})
	if err != nil {
		// The email is out; a failed bookkeeping write must not trigger a
		// redelivery loop. Log loudly and commit the offset.
		log.Error("sent but failed to record delivery", zap.Error(err))
		return nil
	}

	log.Info("notification delivered",
		zap.String("to", owner.Email),
		zap.Int("events", len(matches)),
	)
	return nil
}
