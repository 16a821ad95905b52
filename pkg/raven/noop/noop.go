// Package noop provides a Client that records nothing.
// Useful for tests and for disabling error collection without changing call sites.
package noop

import (
	"context"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// noopClient discards every capture.
type noopClient struct{}

// NewClient creates a client that performs no enrichment, serialization or
// network activity. Captures resolve immediately to a fresh event ID, so
// callers cannot tell it apart from a successful send; feedback resolves to "".
// Arguments are never inspected, nil included.
func NewClient() raven.Client {
	return noopClient{}
}

// CaptureEvent returns a fresh event ID.
func (noopClient) CaptureEvent(ctx context.Context, event *raven.Event) *raven.Pending {
	return raven.Resolved(raven.NewEventID())
}

// CaptureException returns a fresh event ID.
func (noopClient) CaptureException(ctx context.Context, err error, opts ...raven.CaptureOption) *raven.Pending {
	return raven.Resolved(raven.NewEventID())
}

// CaptureMessage returns a fresh event ID.
func (noopClient) CaptureMessage(ctx context.Context, message string, opts ...raven.CaptureOption) *raven.Pending {
	return raven.Resolved(raven.NewEventID())
}

// SendUserFeedback reports success.
func (noopClient) SendUserFeedback(ctx context.Context, feedback raven.UserFeedback) *raven.Pending {
	return raven.Resolved("")
}

// Flush is a no-op and returns nil.
func (noopClient) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op and returns nil.
func (noopClient) Close() error {
	return nil
}
