// instrument.go provides the Instrument function for convenient runner setup.
// This is the recommended entry point for integrating raven with ai-agents-sdk.

package agentssdk

import (
	"time"

	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	"go.uber.org/zap"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// LoggerName is the logger reported on events captured by the runner.
const LoggerName = "agentssdk"

// WrapOption configures a WrappedRunner.
type WrapOption func(*WrappedRunner)

// WithLogger sets the logger for the wrapper.
func WithLogger(logger *zap.Logger) WrapOption {
	return func(w *WrappedRunner) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithEnrichmentStore sets the store used to correlate hook data with errors
// captured at the runner boundary.
func WithEnrichmentStore(store EnrichmentStore) WrapOption {
	return func(w *WrappedRunner) {
		if store != nil {
			w.enrichments = store
		}
	}
}

// WithMaxBreadcrumbs bounds the per-run breadcrumb trail
// (default: raven.DefaultMaxBreadcrumbs).
func WithMaxBreadcrumbs(n int) WrapOption {
	return func(w *WrappedRunner) {
		w.maxBreadcrumbs = n
	}
}

// WithFlushTimeout bounds how long a captured panic waits for delivery
// before it is re-raised (default: 2s).
func WithFlushTimeout(d time.Duration) WrapOption {
	return func(w *WrappedRunner) {
		w.flushTimeout = d
	}
}

// Instrument wraps a Runner with error and panic capture.
//
// Example:
//
//	client := raven.NewClient(raven.WithTransport(transport))
//	runner := agents.NewRunner(llmClient)
//	wrapped := agentssdk.Instrument(runner, client)
//	result, err := wrapped.Run(ctx, agent, input, session, nil)
func Instrument(baseRunner *agents.Runner, client raven.Client, opts ...WrapOption) *WrappedRunner {
	wrapper := &WrappedRunner{
		inner:          baseRunner,
		client:         client,
		enrichments:    NewEnrichmentStore(),
		logger:         zap.NewNop(),
		maxBreadcrumbs: raven.DefaultMaxBreadcrumbs,
		flushTimeout:   2 * time.Second,
	}

	for _, opt := range opts {
		opt(wrapper)
	}

	return wrapper
}
