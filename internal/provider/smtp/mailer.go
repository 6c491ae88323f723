// Package smtp delivers notification messages over SMTP and maps protocol
// failures onto the provider error taxonomy: dial and IO failures become
// request errors, server rejections (textproto status codes) become
// response errors.
package smtp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/provider"
)

type Config struct {
	Addr          string
	From          string
	User          string
	Password      string
	UseTLS        bool
	Timeout       time.Duration
	SubjectPrefix string
}

type Mailer struct {
	addr       string
	auth       smtp.Auth
	useTLS     bool
	timeout    time.Duration
	from       string
	subjPrefix string

	log *zap.Logger
}

var _ provider.Provider = (*Mailer)(nil)

func New(cfg Config) *Mailer {
	var auth smtp.Auth
	if cfg.User != "" || cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, host(cfg.Addr))
	}
	return &Mailer{
		addr:       cfg.Addr,
		auth:       auth,
		useTLS:     cfg.UseTLS,
		timeout:    cfg.Timeout,
		from:       cfg.From,
		subjPrefix: cfg.SubjectPrefix,
		log:        zap.L().With(zap.String("component", "provider.smtp")),
	}
}

func (m *Mailer) WithLogger(l *zap.Logger) *Mailer {
	if l == nil {
		return m
	}
	cp := *m
	cp.log = l.With(zap.String("component", "provider.smtp"))
	return &cp
}

func (m *Mailer) Send(ctx context.Context, msg notification.Message) error {
	if msg.Channel != notification.ChannelEmail {
		return &provider.ResponseError{
			Channel: msg.Channel,
			Message: fmt.Sprintf("smtp provider cannot deliver channel %q", msg.Channel),
			Code:    "unsupported_channel",
		}
	}

	subj := strings.TrimSpace(m.subjPrefix + " " + msg.Subject)
	raw := []byte(
		"From: " + m.from + "\r\n" +
			"To: " + msg.To + "\r\n" +
			"Subject: " + subj + "\r\n" +
			"Content-Type: text/plain; charset=utf-8\r\n" +
			"\r\n" + msg.Body + "\r\n")

	start := time.Now()
	log := m.log.With(
		zap.String("smtp_addr", m.addr),
		zap.Bool("tls", m.useTLS),
		zap.String("to", msg.To),
		zap.String("subject", subj),
	)

	if err := m.deliver(ctx, msg.To, raw); err != nil {
		log.Warn("send failed", zap.Error(err))
		return m.classify(msg.Channel, err)
	}
	log.Info("email sent", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (m *Mailer) deliver(ctx context.Context, to string, raw []byte) error {
	dialer := net.Dialer{Timeout: m.timeout}

	var (
		c   *smtp.Client
		err error
	)
	if m.useTLS {
		conn, derr := tls.DialWithDialer(&dialer, "tcp", m.addr, &tls.Config{ServerName: host(m.addr)})
		if derr != nil {
			return fmt.Errorf("tls dial: %w", derr)
		}
		c, err = smtp.NewClient(conn, host(m.addr))
	} else {
		conn, derr := dialer.DialContext(ctx, "tcp", m.addr)
		if derr != nil {
			return fmt.Errorf("dial: %w", derr)
		}
		c, err = smtp.NewClient(conn, host(m.addr))
	}
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer func() { _ = c.Close() }()

	if m.auth != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(m.auth); err != nil {
				return fmt.Errorf("auth: %w", err)
			}
		}
	}
	if err := c.Mail(m.from); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}
	return c.Quit()
}

// classify turns an SMTP failure into the typed delivery error. A
// textproto status means the server answered and rejected; anything else is
// a transport failure.
func (m *Mailer) classify(channel string, err error) error {
	var te *textproto.Error
	if errors.As(err, &te) {
		return &provider.ResponseError{
			Channel:    channel,
			Message:    te.Msg,
			StatusCode: te.Code,
		}
	}
	return &provider.RequestError{
		Channel: channel,
		Message: "failed to reach smtp server",
		Cause:   err,
	}
}

func host(addr string) string {
	if i := strings.Index(addr, ":"); i >= 0 {
		return addr[:i]
	}
	return addr
}
