// context.go propagates per-request capture data through context.Context:
// the affected user, scoped tags, run IDs and cxdb context IDs.

package raven

import (
	"context"

	"github.com/strongdm/raven-observe/pkg/raven/contexts"
)

// Context key types (unexported to avoid collisions)
type runIDKey struct{}
type contextIDKey struct{}
type userKey struct{}
type tagsKey struct{}

// contextIDSet is used to distinguish "zero value" from "not set"
type contextIDSet struct {
	id uint64
}

// ContextWithUser returns a context whose captures are attributed to user.
func ContextWithUser(ctx context.Context, user contexts.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext extracts the user attached by ContextWithUser.
func UserFromContext(ctx context.Context) (contexts.User, bool) {
	u, ok := ctx.Value(userKey{}).(contexts.User)
	return u, ok
}

// ContextWithTags returns a context whose captures carry tags in addition to any
// tags already attached to ctx. Later values win.
func ContextWithTags(ctx context.Context, tags map[string]string) context.Context {
	merged := make(map[string]string)
	for k, v := range TagsFromContext(ctx) {
		merged[k] = v
	}
	for k, v := range tags {
		merged[k] = v
	}
	return context.WithValue(ctx, tagsKey{}, merged)
}

// TagsFromContext returns the tags attached by ContextWithTags. The map must not be modified.
func TagsFromContext(ctx context.Context) map[string]string {
	tags, _ := ctx.Value(tagsKey{}).(map[string]string)
	return tags
}

// WithRunID returns a context with the run ID attached.
// The run ID correlates adapter enrichment with errors captured at a run boundary.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext extracts the run ID from context.
// Returns empty string and false if not set or if the run ID is empty.
func RunIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(runIDKey{})
	id, ok := v.(string)
	return id, ok && id != ""
}

// WithContextID returns a context with the cxdb context ID attached.
// The cxdb transport appends events captured with this context to that
// conversation instead of creating an orphan one.
func WithContextID(ctx context.Context, contextID uint64) context.Context {
	return context.WithValue(ctx, contextIDKey{}, contextIDSet{id: contextID})
}

// ContextIDFromContext extracts the cxdb context ID from context.
// Returns 0 and false if not set.
func ContextIDFromContext(ctx context.Context) (uint64, bool) {
	v := ctx.Value(contextIDKey{})
	if v == nil {
		return 0, false
	}
	set, ok := v.(contextIDSet)
	if !ok {
		return 0, false
	}
	return set.id, true
}

// ContextIDProvider is an optional interface that session implementations can
// satisfy so captures are linked to their cxdb conversation.
type ContextIDProvider interface {
	ContextID(ctx context.Context) (uint64, error)
}
