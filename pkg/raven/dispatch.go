// dispatch.go hands serialized packets to the transport without blocking the caller.

package raven

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// errTooManyInFlight is reported when a send is dropped at the in-flight bound.
var errTooManyInFlight = errors.New("raven: too many sends in flight")

// dispatcher runs every send on its own goroutine, bounded by a semaphore.
// Packets that cannot be started immediately are dropped rather than queued.
type dispatcher struct {
	transport Transport
	logger    *zap.Logger
	sem       *semaphore.Weighted
	onDropped func(eventID string)

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	// inflight counts running sends; idle is closed when it drops to zero.
	// wg is only waited on by close, after closed stops new Adds.
	inflightMu sync.Mutex
	inflight   int
	idle       chan struct{}
}

func newDispatcher(transport Transport, logger *zap.Logger, maxInFlight int64, onDropped func(string)) *dispatcher {
	return &dispatcher{
		transport: transport,
		logger:    logger,
		sem:       semaphore.NewWeighted(maxInFlight),
		onDropped: onDropped,
	}
}

// dispatch sends p asynchronously and resolves the returned Pending with
// result(resp, err). When the packet cannot be sent at all, result is called
// synchronously with the reason.
func (d *dispatcher) dispatch(ctx context.Context, p Packet, result func(Response, error) string) *Pending {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return Resolved(result(Response{}, ErrClientClosed))
	}
	if !d.sem.TryAcquire(1) {
		d.mu.RUnlock()
		d.logger.Warn("raven: dropping packet",
			zap.Stringer("destination", p.Destination),
			zap.String("event_id", p.EventID),
		)
		if d.onDropped != nil {
			d.onDropped(p.EventID)
		}
		return Resolved(result(Response{}, errTooManyInFlight))
	}
	d.wg.Add(1)
	d.begin()
	d.mu.RUnlock()

	// The send outlives the caller's request; only values are carried over.
	sendCtx := context.WithoutCancel(ctx)
	pending := newPending()
	go func() {
		defer d.wg.Done()
		defer d.end()
		defer d.sem.Release(1)
		resp, err := d.send(sendCtx, p)
		pending.resolve(result(resp, err))
	}()
	return pending
}

// send calls the transport, turning a transport panic into an error.
func (d *dispatcher) send(ctx context.Context, p Packet) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("raven: transport panicked: %v", r)
		}
	}()
	return d.transport.Send(ctx, p)
}

func (d *dispatcher) begin() {
	d.inflightMu.Lock()
	defer d.inflightMu.Unlock()
	if d.inflight == 0 {
		d.idle = make(chan struct{})
	}
	d.inflight++
}

func (d *dispatcher) end() {
	d.inflightMu.Lock()
	defer d.inflightMu.Unlock()
	d.inflight--
	if d.inflight == 0 {
		close(d.idle)
	}
}

// flush waits until no sends are in flight or ctx is done.
func (d *dispatcher) flush(ctx context.Context) error {
	d.inflightMu.Lock()
	if d.inflight == 0 {
		d.inflightMu.Unlock()
		return nil
	}
	idle := d.idle
	d.inflightMu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close rejects new packets, waits for in-flight sends, then closes the
// transport if it holds resources.
func (d *dispatcher) close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	if c, ok := d.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
