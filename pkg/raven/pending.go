package raven

import "context"

// Pending is the result of an asynchronous capture. For events it resolves to
// the event identifier, or "" when nothing was recorded. For user feedback it
// resolves to "" on success, or the server's response on failure.
type Pending struct {
	done  chan struct{}
	value string
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Resolved returns a Pending that has already completed with value.
func Resolved(value string) *Pending {
	p := newPending()
	p.resolve(value)
	return p
}

// resolve must be called exactly once.
func (p *Pending) resolve(value string) {
	p.value = value
	close(p.done)
}

// Done is closed once the result is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the result is available.
func (p *Pending) Wait() string {
	<-p.done
	return p.value
}

// WaitContext blocks until the result is available or ctx is done.
// Giving up on waiting does not cancel the send.
func (p *Pending) WaitContext(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		return p.value, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
