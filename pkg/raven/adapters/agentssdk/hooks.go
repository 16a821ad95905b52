// hooks.go implements RunHooks that record breadcrumbs and enrichment for
// errors captured at the runner boundary.

package agentssdk

import (
	"context"

	"github.com/strongdm/ai-agents-sdk/pkg/agents"
	llmsdk "github.com/strongdm/ai-llm-sdk/pkg/llm"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// HookAdapter implements agents.RunHooks. It records a breadcrumb per
// operation on the run's trail and keeps the run's enrichment current, then
// delegates to the inner hooks.
type HookAdapter struct {
	store EnrichmentStore
	inner agents.RunHooks
}

// NewHookAdapter wraps inner (which may be nil). Only the inner hooks'
// errors are returned.
func NewHookAdapter(store EnrichmentStore, inner agents.RunHooks) agents.RunHooks {
	return &HookAdapter{
		store: store,
		inner: inner,
	}
}

// OnAgentStart captures the agent name.
func (h *HookAdapter) OnAgentStart(ctx context.Context, runCtx *agents.AgentHookContext, agent *agents.Agent) error {
	if agent != nil {
		h.update(ctx, func(e *Enrichment) {
			e.AgentName = agent.Name()
		})
		raven.AddBreadcrumb(ctx, raven.Breadcrumb{
			Category: CategoryAgent,
			Message:  "start " + agent.Name(),
			Level:    raven.LevelInfo,
		})
	}

	if h.inner != nil {
		return h.inner.OnAgentStart(ctx, runCtx, agent)
	}
	return nil
}

func (h *HookAdapter) OnAgentEnd(ctx context.Context, runCtx *agents.AgentHookContext, agent *agents.Agent, result agents.RunResult) error {
	if h.inner != nil {
		return h.inner.OnAgentEnd(ctx, runCtx, agent, result)
	}
	return nil
}

// OnHandoff records the handoff and moves enrichment to the receiving agent.
func (h *HookAdapter) OnHandoff(ctx context.Context, runCtx *agents.RunContext, from *agents.Agent, to *agents.Agent) error {
	if from != nil && to != nil {
		h.update(ctx, func(e *Enrichment) {
			e.Operation = CategoryHandoff
			e.AgentName = to.Name()
		})
		raven.AddBreadcrumb(ctx, raven.Breadcrumb{
			Category: CategoryHandoff,
			Message:  from.Name() + " -> " + to.Name(),
			Level:    raven.LevelInfo,
		})
	}

	if h.inner != nil {
		return h.inner.OnHandoff(ctx, runCtx, from, to)
	}
	return nil
}

// OnToolStart captures tool context.
func (h *HookAdapter) OnToolStart(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, tool agents.Tool, call llmsdk.ToolCall) error {
	h.update(ctx, func(e *Enrichment) {
		if agent != nil {
			e.AgentName = agent.Name()
		}
		e.Operation = CategoryTool
		e.ToolName = tool.Name
		e.ToolCallID = call.ID
		e.OperationID = call.ID
	})
	raven.AddBreadcrumb(ctx, toolStartBreadcrumb(tool, call))

	if h.inner != nil {
		return h.inner.OnToolStart(ctx, runCtx, agent, tool, call)
	}
	return nil
}

func (h *HookAdapter) OnToolEnd(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, tool agents.Tool, output string) error {
	raven.AddBreadcrumb(ctx, toolEndBreadcrumb(tool, output))

	if h.inner != nil {
		return h.inner.OnToolEnd(ctx, runCtx, agent, tool, output)
	}
	return nil
}

// OnLLMStart captures the model.
func (h *HookAdapter) OnLLMStart(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, req llmsdk.Request) error {
	var agentName string
	if agent != nil {
		agentName = agent.Name()
	}
	h.update(ctx, func(e *Enrichment) {
		if agentName != "" {
			e.AgentName = agentName
		}
		e.Operation = CategoryLLM
		e.Model = req.Model
	})
	raven.AddBreadcrumb(ctx, llmStartBreadcrumb(agentName, req))

	if h.inner != nil {
		return h.inner.OnLLMStart(ctx, runCtx, agent, req)
	}
	return nil
}

func (h *HookAdapter) OnLLMEnd(ctx context.Context, runCtx *agents.RunContext, agent *agents.Agent, resp llmsdk.Response) error {
	raven.AddBreadcrumb(ctx, llmEndBreadcrumb(resp))

	if h.inner != nil {
		return h.inner.OnLLMEnd(ctx, runCtx, agent, resp)
	}
	return nil
}

// update applies fn to the enrichment of the run carried by ctx, if any.
func (h *HookAdapter) update(ctx context.Context, fn func(e *Enrichment)) {
	if runID, ok := raven.RunIDFromContext(ctx); ok {
		h.store.Update(runID, fn)
	}
}
