package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
	"github.com/healytics/healytics-client/internal/infrastructure/resilience"
	"github.com/healytics/healytics-client/internal/observability/metrics"
)

// Client is the single outbound gateway to the Healytics backend. It
// injects the bearer credential, paces requests, classifies failures,
// and never lets a raw transport error cross its boundary.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     ports.TokenSource
	limiter    *rate.Limiter
	exec       *resilience.Executor
	metrics    *metrics.ClientMetrics
	log        *slog.Logger
}

type Options struct {
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	Policy        resilience.Policy
	Metrics       *metrics.ClientMetrics
	Logger        *slog.Logger
}

func New(baseURL string, tokens ports.TokenSource, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 10
	}
	if opts.Burst <= 0 {
		opts.Burst = 20
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(opts.RatePerSecond), opts.Burst),
		exec:       resilience.NewExecutor(opts.Policy),
		metrics:    opts.Metrics,
		log:        opts.Logger,
	}
}

func (c *Client) do(ctx context.Context, call call, out any) error {
	return c.exec.Run(ctx, call.operation, func(ctx context.Context) error {
		return c.doOnce(ctx, call, out)
	}, classifierFor(call.idempotent))
}

func (c *Client) getJSON(ctx context.Context, path string, out any, operation string) error {
	return c.do(ctx, call{
		method:     http.MethodGet,
		path:       path,
		operation:  operation,
		idempotent: true,
	}, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapError(domain.ErrValidation, operation, fmt.Errorf("marshal request: %w", err))
	}
	return c.do(ctx, call{
		method:      http.MethodPost,
		path:        path,
		contentType: "application/json",
		body:        body,
		operation:   operation,
	}, out)
}

func (c *Client) postMultipart(ctx context.Context, path string, build func(*multipart.Writer) error, out any, operation string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := build(writer); err != nil {
		return domain.WrapError(domain.ErrValidation, operation, err)
	}
	if err := writer.Close(); err != nil {
		return domain.WrapError(domain.ErrValidation, operation, err)
	}

	return c.do(ctx, call{
		method:      http.MethodPost,
		path:        path,
		contentType: writer.FormDataContentType(),
		body:        buf.Bytes(),
		operation:   operation,
	}, out)
}

func (c *Client) delete(ctx context.Context, path string, out any, operation string) error {
	return c.do(ctx, call{
		method:     http.MethodDelete,
		path:       path,
		operation:  operation,
		idempotent: true,
	}, out)
}

// fetchCollection runs a GET whose body may be either a bare array or a
// paginated envelope and normalizes it into a tagged collection.
func fetchCollection[T any](ctx context.Context, c *Client, path, operation string) (domain.Collection[T], error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, &raw, operation); err != nil {
		return domain.Collection[T]{Items: []T{}, Source: domain.SourceArray}, err
	}
	return decodeCollection[T](raw), nil
}
