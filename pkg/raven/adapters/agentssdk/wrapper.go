// wrapper.go implements WrappedRunner that wraps agents.Runner to capture errors and panics.
// This is the primary capture mechanism; hooks provide enrichment and breadcrumbs.

package agentssdk

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	"go.uber.org/zap"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// WrappedRunner wraps an agents.Runner to capture errors and panics.
type WrappedRunner struct {
	inner          *agents.Runner
	client         raven.Client
	enrichments    EnrichmentStore
	logger         *zap.Logger
	maxBreadcrumbs int
	flushTimeout   time.Duration
}

// Run executes the agent with the given input and session, capturing any errors or panics.
// Panics are re-raised after capture.
func (w *WrappedRunner) Run(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (agents.RunResult, error) {
	ctx, runID := w.begin(ctx, session)
	defer w.enrichments.Delete(runID)
	defer w.capturePanic(ctx, runID)

	result, err := w.inner.Run(ctx, agent, input, session, w.wrapRunConfig(cfg))
	if err != nil {
		w.captureError(ctx, runID, err)
	}
	return result, err
}

// RunOnce executes a single turn of the agent, capturing any errors or panics.
func (w *WrappedRunner) RunOnce(ctx context.Context, agent *agents.Agent, input string, cfg *agents.RunConfig) (agents.RunResult, error) {
	ctx, runID := w.begin(ctx, nil)
	defer w.enrichments.Delete(runID)
	defer w.capturePanic(ctx, runID)

	result, err := w.inner.RunOnce(ctx, agent, input, w.wrapRunConfig(cfg))
	if err != nil {
		w.captureError(ctx, runID, err)
	}
	return result, err
}

// RunStream starts a streaming run, capturing any errors at the start.
// Errors during streaming are not captured by this wrapper.
func (w *WrappedRunner) RunStream(ctx context.Context, agent *agents.Agent, input string, session agents.Session, cfg *agents.RunConfig) (*agents.StreamingRun, error) {
	ctx, runID := w.begin(ctx, session)
	// The stream outlives this call, so its enrichment is kept until it ends.
	defer w.capturePanic(ctx, runID)

	stream, err := w.inner.RunStream(ctx, agent, input, session, w.wrapRunConfig(cfg))
	if err != nil {
		w.captureError(ctx, runID, err)
		w.enrichments.Delete(runID)
	}
	return stream, err
}

// begin attaches a fresh run ID, a breadcrumb trail and the session's cxdb
// context ID to ctx.
func (w *WrappedRunner) begin(ctx context.Context, session any) (context.Context, string) {
	runID := uuid.New().String()
	ctx = raven.WithRunID(ctx, runID)
	ctx = raven.WithBreadcrumbs(ctx, w.maxBreadcrumbs)
	if provider, ok := session.(raven.ContextIDProvider); ok {
		if id, err := provider.ContextID(ctx); err == nil {
			ctx = raven.WithContextID(ctx, id)
		}
	}
	return ctx, runID
}

// wrapRunConfig clones cfg and wraps its hooks with a HookAdapter.
func (w *WrappedRunner) wrapRunConfig(cfg *agents.RunConfig) *agents.RunConfig {
	var cloned agents.RunConfig
	if cfg != nil {
		cloned = *cfg
	}
	cloned.Hooks = NewHookAdapter(w.enrichments, cloned.Hooks)
	return &cloned
}

func (w *WrappedRunner) tags(runID, kind string) map[string]string {
	enrichment, _ := w.enrichments.Get(runID)
	tags := enrichment.Tags()
	tags["error.kind"] = kind
	return tags
}

// captureError captures a run error with enrichment tags.
func (w *WrappedRunner) captureError(ctx context.Context, runID string, err error) {
	kind := classifyError(err)
	w.logger.Debug("agentssdk: capturing run error",
		zap.String("run_id", runID),
		zap.String("kind", kind),
		zap.Error(err),
	)
	w.client.CaptureException(ctx, err,
		raven.WithTags(w.tags(runID, kind)),
		raven.WithLoggerName(LoggerName),
	)
}

// capturePanic recovers from a panic, captures it, and re-panics.
func (w *WrappedRunner) capturePanic(ctx context.Context, runID string) {
	r := recover()
	if r == nil {
		return
	}

	event := raven.NewPanicEvent(r)
	event.Logger = LoggerName
	for k, v := range w.tags(runID, "panic") {
		event.Tags[k] = v
	}
	w.client.CaptureEvent(ctx, event)

	flushCtx, cancel := context.WithTimeout(context.Background(), w.flushTimeout)
	if err := w.client.Flush(flushCtx); err != nil {
		w.logger.Warn("agentssdk: panic capture not delivered before re-panic",
			zap.String("run_id", runID),
			zap.Error(err),
		)
	}
	cancel()
	panic(r)
}

// Inner returns the underlying Runner for advanced usage.
func (w *WrappedRunner) Inner() *agents.Runner {
	return w.inner
}
