// Package provider defines the outbound delivery boundary: a capability
// that accepts a channel-addressed message and fails with one of two typed
// errors. Adapters live in subpackages.
package provider

import (
	"context"
	"fmt"

	"github.com/dtpt/matchday/internal/domain/notification"
)

type Provider interface {
	Send(ctx context.Context, msg notification.Message) error
}

// Provider error codes known to be transient.
const (
	CodeRateLimitExceeded   = "rate_limit_exceeded"
	CodeApplicationError    = "application_error"
	CodeInternalServerError = "internal_server_error"
)

// RequestError means the provider could not be reached at all.
type RequestError struct {
	Channel string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s request failed: %s: %v", e.Channel, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s request failed: %s", e.Channel, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Cause }

// ResponseError means the provider was reached but rejected the request.
// StatusCode is 0 when the provider reported none.
type ResponseError struct {
	Channel    string
	Message    string
	Code       string
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s rejected: %s (code=%s status=%d)", e.Channel, e.Message, e.Code, e.StatusCode)
}
