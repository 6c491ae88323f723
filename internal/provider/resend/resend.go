// Package resend adapts the Resend email API to the provider boundary.
package resend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dtpt/matchday/internal/domain/notification"
	"github.com/dtpt/matchday/internal/provider"
)

type Provider struct {
	client *Client
	from   string
	log    *zap.Logger
}

var _ provider.Provider = (*Provider)(nil)

func New(client *Client, from string, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.L()
	}
	return &Provider{
		client: client,
		from:   from,
		log:    log.With(zap.String("component", "provider.resend")),
	}
}

func (p *Provider) Send(ctx context.Context, msg notification.Message) error {
	if msg.Channel != notification.ChannelEmail {
		return &provider.ResponseError{
			Channel: msg.Channel,
			Message: fmt.Sprintf("resend provider cannot deliver channel %q", msg.Channel),
			Code:    "unsupported_channel",
		}
	}

	apiErr, err := p.client.SendEmail(ctx, p.from, msg.To, msg.Subject, msg.Body)
	if err != nil {
		return &provider.RequestError{
			Channel: msg.Channel,
			Message: "failed to reach resend api",
			Cause:   err,
		}
	}
	if apiErr != nil {
		p.log.Warn("resend rejected message",
			zap.String("code", apiErr.Name),
			zap.Int("status", apiErr.StatusCode),
		)
		return &provider.ResponseError{
			Channel:    msg.Channel,
			Message:    apiErr.Message,
			Code:       apiErr.Name,
			StatusCode: apiErr.StatusCode,
		}
	}

	p.log.Debug("email accepted", zap.String("to", msg.To))
	return nil
}
