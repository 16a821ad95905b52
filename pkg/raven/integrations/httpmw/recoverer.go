// Package httpmw provides HTTP middleware that reports handler panics.
package httpmw

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// Option configures the middleware.
type Option func(*config)

type config struct {
	repanic      bool
	flushTimeout time.Duration
}

// WithRepanic re-raises the panic after it is captured, leaving the response
// to an outer handler. The capture is flushed first, bounded by timeout.
func WithRepanic(timeout time.Duration) Option {
	return func(c *config) {
		c.repanic = true
		c.flushTimeout = timeout
	}
}

// Recoverer returns middleware that captures panics from the wrapped handler
// as fatal events tagged with the request method and route, then replies 500.
// http.ErrAbortHandler is passed through uncaptured. When no span is active on
// the request context, the W3C traceparent header links the event to the
// caller's trace.
func Recoverer(client raven.Client, opts ...Option) mux.MiddlewareFunc {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(recovered)
				}

				event := raven.NewPanicEvent(recovered)
				for k, v := range requestTags(r) {
					event.Tags[k] = v
				}
				event.Extra["url"] = r.URL.String()
				client.CaptureEvent(captureContext(r), event)

				if cfg.repanic {
					ctx, cancel := context.WithTimeout(context.Background(), cfg.flushTimeout)
					_ = client.Flush(ctx)
					cancel()
					panic(recovered)
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func captureContext(r *http.Request) context.Context {
	ctx := r.Context()
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	return propagation.TraceContext{}.Extract(ctx, propagation.HeaderCarrier(r.Header))
}

func requestTags(r *http.Request) map[string]string {
	tags := map[string]string{
		"http.method": r.Method,
	}
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			tags["http.route"] = tpl
		}
		if name := route.GetName(); name != "" {
			tags["http.route_name"] = name
		}
	}
	return tags
}
