// recover.go provides the Recover helper for standalone panic recovery.
// Use this in HTTP handlers, goroutines, or other code outside of an instrumented runner.

package raven

import "context"

// MechanismPanic is the mechanism type of events built from recovered panics.
const MechanismPanic = "panic"

// Recover captures a panic, sends it through client, and returns the recovered value.
// Recover does NOT re-panic after capturing.
//
// Use in defer:
//
//	func handler(ctx context.Context) {
//	    defer raven.Recover(ctx, client)
//	    // code that might panic
//	}
//
// Recover must be deferred directly; called from inside another deferred
// function it recovers nothing and returns nil.
func Recover(ctx context.Context, client Client) any {
	r := recover()
	if r == nil {
		return nil
	}
	client.CaptureEvent(ctx, NewPanicEvent(r))
	return r
}

// NewPanicEvent builds a fatal event for a recovered panic value. The stack
// is taken when the event is captured, so capture it from the deferred call
// that recovered.
func NewPanicEvent(recovered any) *Event {
	event := NewEvent()
	event.Level = LevelFatal
	event.Err = errorFromRecovered(recovered)
	event.Mechanism = &Mechanism{Type: MechanismPanic, Handled: new(bool)}
	return event
}
