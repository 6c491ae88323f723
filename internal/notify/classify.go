package notify

import (
	"errors"
	"net/http"

	"github.com/dtpt/matchday/internal/provider"
)

// Retriable classifies a delivery failure. Request errors (provider
// unreachable) are always transient. Response errors are transient on 429,
// any 5xx, or a provider code from the known-transient set; everything else
// is terminal.
func Retriable(err error) bool {
	var reqErr *provider.RequestError
	if errors.As(err, &reqErr) {
		return true
	}

	var respErr *provider.ResponseError
	if errors.As(err, &respErr) {
		if respErr.StatusCode == http.StatusTooManyRequests || respErr.StatusCode >= http.StatusInternalServerError {
			return true
		}
		switch respErr.Code {
		case provider.CodeRateLimitExceeded, provider.CodeApplicationError, provider.CodeInternalServerError:
			return true
		}
		return false
	}

	return false
}
