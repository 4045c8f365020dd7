package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict tells the executor how a failed attempt should be treated.
// Retryable drives the backoff loop; CountAsFailure drives the breaker.
type Verdict struct {
	Retryable      bool
	CountAsFailure bool
}

type Classifier func(err error) Verdict

// Executor runs outbound calls under a retry loop and a per-operation
// circuit breaker. One executor is shared by the whole API client.
type Executor struct {
	policy Policy

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
}

func NewExecutor(policy Policy) *Executor {
	return &Executor{
		policy:   policy.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
	}
}

func (e *Executor) Run(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classify Classifier,
) error {
	if fn == nil {
		return fmt.Errorf("resilience: operation callback is nil")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = neverRetry
	}

	if !e.policy.BreakerEnabled {
		return e.runWithRetry(ctx, op, fn, classify)
	}

	breaker := e.breakerFor(op, classify)
	_, err := breaker.Execute(func() (any, error) {
		return nil, e.runWithRetry(ctx, op, fn, classify)
	})
	return err
}

func (e *Executor) runWithRetry(
	ctx context.Context,
	operation string,
	fn func(context.Context) error,
	classify Classifier,
) error {
	maxAttempts := e.policy.MaxAttempts
	backoff := e.policy.InitialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}

		verdict := classify(err)
		if !verdict.Retryable || attempt == maxAttempts {
			return err
		}

		wait := backoff
		if wait > e.policy.MaxBackoff {
			wait = e.policy.MaxBackoff
		}
		slog.Warn("retry_attempt",
			"operation", operation,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"backoff_ms", float64(wait.Microseconds())/1000.0,
			"error", err,
		)

		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return err
			case <-timer.C:
			}
		}

		backoff = time.Duration(float64(backoff) * e.policy.Multiplier)
		if backoff > e.policy.MaxBackoff {
			backoff = e.policy.MaxBackoff
		}
	}

	return nil
}

func (e *Executor) breakerFor(operation string, classify Classifier) *gobreaker.CircuitBreaker[any] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.policy.BreakerHalfOpenMaxCalls,
		Timeout:     e.policy.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.policy.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= e.policy.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !classify(err).CountAsFailure
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("circuit_breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	e.breakers[operation] = breaker
	return breaker
}

func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func neverRetry(error) Verdict {
	return Verdict{
		Retryable:      false,
		CountAsFailure: true,
	}
}
