package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healytics/healytics-client/internal/core/domain"
)

const (
	requestIDHeader = "X-Request-Id"
	serviceName     = "healytics-client"
	maxErrorBody    = 4096
)

// HTTPStatusError is a non-2xx backend response. Info carries the
// user-facing message already extracted per the reply/error/detail
// priority.
type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Info       domain.ErrorInfo
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "backend status error"
	}
	return fmt.Sprintf("backend %s status: %s: %s", e.Operation, e.Status, e.Info.Message)
}

func (e *HTTPStatusError) Unwrap() []error {
	kind := domain.ErrHTTP
	if e.StatusCode == http.StatusUnauthorized {
		kind = domain.ErrUnauthorized
	}
	return []error{e.Info, kind}
}

type call struct {
	method      string
	path        string
	contentType string
	body        []byte
	operation   string
	idempotent  bool
}

func (c *Client) doOnce(ctx context.Context, call call, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.WrapError(domain.ErrNetwork, call.operation, err)
	}

	var body io.Reader
	if len(call.body) > 0 {
		body = bytes.NewReader(call.body)
	}
	req, err := http.NewRequestWithContext(ctx, call.method, c.baseURL+call.path, body)
	if err != nil {
		return domain.WrapError(domain.ErrNetwork, call.operation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())
	if call.contentType != "" {
		req.Header.Set("Content-Type", call.contentType)
	}
	// The bearer header is attached only when a token exists; anonymous
	// requests never carry a stale or empty Authorization value.
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	done := c.metrics.RequestStarted()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		done(serviceName, call.method, call.operation, 0, time.Since(start))
		c.metrics.RecordRequestFailure(serviceName, call.operation, string(domain.OriginNetwork))
		c.log.Warn("backend_request_failed",
			"operation", call.operation,
			"method", call.method,
			"path", call.path,
			"error", err,
		)
		return domain.WrapError(domain.ErrNetwork, call.operation, err)
	}
	defer resp.Body.Close()
	done(serviceName, call.method, call.operation, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordRequestFailure(serviceName, call.operation, string(domain.OriginHTTP))
		return newStatusError(call.operation, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(domain.ErrHTTP, call.operation, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func newStatusError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Info: domain.ErrorInfo{
			Message: extractMessage(raw),
			Origin:  domain.OriginHTTP,
		},
	}
}

// extractMessage pulls the user-facing message out of an error body,
// preferring reply, then error, then detail. Anything else degrades to
// the generic message.
func extractMessage(raw []byte) string {
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err == nil {
		for _, key := range []string{"reply", "error", "detail"} {
			if text, ok := envelope[key].(string); ok && strings.TrimSpace(text) != "" {
				return strings.TrimSpace(text)
			}
		}
	}
	return domain.GenericFailureMessage
}
