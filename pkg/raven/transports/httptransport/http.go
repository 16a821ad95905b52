// Package httptransport delivers packets to a Sentry-compatible server over HTTP.
package httptransport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/strongdm/raven-observe/pkg/raven"
	"github.com/strongdm/raven-observe/pkg/raven/dsn"
)

// EnvDSN is the environment variable read by FromEnv.
const EnvDSN = "SENTRY_DSN"

// maxResponseBody bounds how much of a response is kept.
const maxResponseBody = 64 << 10

// Option configures the HTTP transport.
type Option func(*Transport)

// WithHTTPClient sets the client requests are sent with (default: 10s timeout).
func WithHTTPClient(client *http.Client) Option {
	return func(t *Transport) {
		if client != nil {
			t.client = client
		}
	}
}

// WithLogger sets the logger used for retries.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMaxRetries sets how many times a failed send is retried (default: 3).
// Zero disables retries.
func WithMaxRetries(n uint64) Option {
	return func(t *Transport) {
		t.maxRetries = n
	}
}

// WithRetryInterval sets the initial and maximum wait between retries
// (default: 500ms and 5s).
func WithRetryInterval(initial, maxWait time.Duration) Option {
	return func(t *Transport) {
		if initial > 0 {
			t.initialInterval = initial
		}
		if maxWait > 0 {
			t.maxInterval = maxWait
		}
	}
}

// Transport posts events to the DSN's store endpoint and user feedback to its
// error-page endpoint. Safe for concurrent use.
type Transport struct {
	dsn             *dsn.DSN
	client          *http.Client
	logger          *zap.Logger
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	now             func() time.Time
}

// New creates a transport for d.
func New(d *dsn.DSN, opts ...Option) *Transport {
	t := &Transport{
		dsn:             d,
		client:          &http.Client{Timeout: 10 * time.Second},
		logger:          zap.NewNop(),
		maxRetries:      3,
		initialInterval: 500 * time.Millisecond,
		maxInterval:     5 * time.Second,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewFromDSN parses raw and creates a transport for it.
func NewFromDSN(raw string, opts ...Option) (*Transport, error) {
	d, err := dsn.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("httptransport: %w", err)
	}
	return New(d, opts...), nil
}

// FromEnv creates a transport from SENTRY_DSN. When the variable is unset or
// empty it returns a nil Transport and no error, which leaves a client built
// with it disabled.
func FromEnv(opts ...Option) (raven.Transport, error) {
	raw := os.Getenv(EnvDSN)
	if raw == "" {
		return nil, nil
	}
	t, err := NewFromDSN(raw, opts...)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Send implements raven.Transport. Network errors, 429 and 5xx responses are
// retried with exponential backoff; other non-2xx responses fail at once
// with a *raven.TransportError.
func (t *Transport) Send(ctx context.Context, p raven.Packet) (raven.Response, error) {
	endpoint, err := t.endpoint(p)
	if err != nil {
		return raven.Response{}, err
	}

	var resp raven.Response
	operation := func() error {
		var err error
		resp, err = t.do(ctx, endpoint, p)
		return err
	}
	notify := func(err error, wait time.Duration) {
		t.logger.Debug("raven: retrying send",
			zap.Stringer("destination", p.Destination),
			zap.String("event_id", p.EventID),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
	}

	if err := backoff.RetryNotify(operation, t.backoff(ctx), notify); err != nil {
		return resp, err
	}
	return resp, nil
}

// Close releases idle connections.
func (t *Transport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

func (t *Transport) endpoint(p raven.Packet) (string, error) {
	switch p.Destination {
	case raven.DestinationEvents:
		return t.dsn.StoreURL(), nil
	case raven.DestinationFeedback:
		return t.dsn.FeedbackURL(p.EventID), nil
	default:
		return "", fmt.Errorf("httptransport: unknown destination %v", p.Destination)
	}
}

func (t *Transport) backoff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.initialInterval
	b.MaxInterval = t.maxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, t.maxRetries), ctx)
}

// do performs one attempt. Errors that must not be retried are wrapped with
// backoff.Permanent.
func (t *Transport) do(ctx context.Context, endpoint string, p raven.Packet) (raven.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(p.Body))
	if err != nil {
		return raven.Response{}, backoff.Permanent(fmt.Errorf("httptransport: build request: %w", err))
	}
	req.Header.Set("Content-Type", p.ContentType)
	req.Header.Set("User-Agent", raven.SDKName+"/"+raven.SDKVersion)
	req.Header.Set("X-Sentry-Auth", t.dsn.AuthHeader(t.now(), raven.SDKName+"/"+raven.SDKVersion))

	httpResp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return raven.Response{}, backoff.Permanent(err)
		}
		return raven.Response{}, fmt.Errorf("httptransport: send: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil && !errors.Is(err, io.EOF) {
		t.logger.Debug("raven: failed to read response body", zap.Error(err))
	}

	resp := raven.Response{Status: httpResp.StatusCode, Body: body}
	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		if p.Destination == raven.DestinationEvents && gjson.ValidBytes(body) {
			resp.ID = gjson.GetBytes(body, "id").String()
		}
		return resp, nil
	}

	terr := &raven.TransportError{Status: httpResp.StatusCode, Body: body}
	if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= 500 {
		return resp, terr
	}
	return resp, backoff.Permanent(terr)
}
