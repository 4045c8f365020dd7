package backend

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/healytics/healytics-client/internal/infrastructure/resilience"
)

// classifierFor decides retry and breaker accounting for one call.
// Non-idempotent submissions (uploads, chat turns, form posts) are never
// retried; replaying them could duplicate server-side work.
func classifierFor(idempotent bool) resilience.Classifier {
	return func(err error) resilience.Verdict {
		verdict := classifyBackendError(err)
		if !idempotent {
			verdict.Retryable = false
		}
		return verdict
	}
}

func classifyBackendError(err error) resilience.Verdict {
	if err == nil {
		return resilience.Verdict{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.Verdict{
			Retryable:      false,
			CountAsFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.Verdict{
			Retryable:      false,
			CountAsFailure: true,
		}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.Verdict{
				Retryable:      true,
				CountAsFailure: true,
			}
		}
		// Client errors (4xx) are the caller's problem, not the backend's.
		return resilience.Verdict{
			Retryable:      false,
			CountAsFailure: false,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.Verdict{
			Retryable:      true,
			CountAsFailure: true,
		}
	}

	return resilience.Verdict{
		Retryable:      false,
		CountAsFailure: true,
	}
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
