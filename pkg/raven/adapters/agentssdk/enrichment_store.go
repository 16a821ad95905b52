// enrichment_store.go keeps what the run hooks learned about each run so the
// wrapper can tag events captured when that run fails.

package agentssdk

import "sync"

// Enrichment is the last known position of a run: which agent and model were
// active and which operation was in progress. Each non-empty field becomes an
// event tag (see Tags).
type Enrichment struct {
	AgentName string // tag "agent"
	Model     string // tag "model"

	ToolName   string // tag "tool"
	ToolCallID string // tag "tool_call_id"

	// Operation is the breadcrumb category of the in-progress step
	// (CategoryLLM, CategoryTool, CategoryHandoff).
	Operation   string // tag "operation"
	OperationID string // tag "operation_id"
}

// Tags returns the non-empty fields keyed by event tag name.
func (e Enrichment) Tags() map[string]string {
	fields := [...]struct{ key, value string }{
		{"agent", e.AgentName},
		{"model", e.Model},
		{"tool", e.ToolName},
		{"tool_call_id", e.ToolCallID},
		{"operation", e.Operation},
		{"operation_id", e.OperationID},
	}
	tags := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.value != "" {
			tags[f.key] = f.value
		}
	}
	return tags
}

// EnrichmentStore maps run IDs to their Enrichment. Hooks write to it while a
// run is in progress; the wrapper reads it when capturing and deletes it once
// the run returns. Implementations must be safe for concurrent use.
type EnrichmentStore interface {
	// Update edits the run's enrichment in place, starting from the zero value
	// for an unknown run. fn runs under the store's lock and must not call
	// back into the store.
	Update(runID string, fn func(e *Enrichment))

	// Get returns a snapshot of the run's enrichment.
	Get(runID string) (Enrichment, bool)

	// Delete forgets the run. Unknown run IDs are ignored.
	Delete(runID string)
}

// runEnrichments is the map-backed EnrichmentStore returned by NewEnrichmentStore.
type runEnrichments struct {
	mu   sync.RWMutex
	runs map[string]Enrichment
}

// NewEnrichmentStore returns an empty in-process EnrichmentStore.
func NewEnrichmentStore() EnrichmentStore {
	return &runEnrichments{runs: make(map[string]Enrichment)}
}

func (s *runEnrichments) Update(runID string, fn func(e *Enrichment)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.runs[runID]
	fn(&e)
	s.runs[runID] = e
}

func (s *runEnrichments) Get(runID string) (Enrichment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.runs[runID]
	return e, ok
}

func (s *runEnrichments) Delete(runID string) {
	s.mu.Lock()
	delete(s.runs, runID)
	s.mu.Unlock()
}
