package multi

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// mockTransport is a test transport that tracks calls and can return errors.
type mockTransport struct {
	mu       sync.Mutex
	packets  []raven.Packet
	resp     raven.Response
	sendErr  error
	closeErr error
	closed   bool
}

func (m *mockTransport) Send(ctx context.Context, p raven.Packet) (raven.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packets = append(m.packets, p)
	if m.sendErr != nil {
		return raven.Response{}, m.sendErr
	}
	return m.resp, nil
}

func (m *mockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return m.closeErr
}

func (m *mockTransport) getPackets() []raven.Packet {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]raven.Packet, len(m.packets))
	copy(result, m.packets)
	return result
}

func (m *mockTransport) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// sendOnly has no Close method.
type sendOnly struct{}

func (sendOnly) Send(ctx context.Context, p raven.Packet) (raven.Response, error) {
	return raven.Response{Status: 200}, nil
}

func TestTransport_ImplementsTransportInterface(t *testing.T) {
	var _ raven.Transport = New()
}

func TestTransport_Send_CallsAllTransports(t *testing.T) {
	tr1 := &mockTransport{}
	tr2 := &mockTransport{}
	tr3 := &mockTransport{}
	multi := New(tr1, tr2, tr3)

	_, err := multi.Send(context.Background(), raven.Packet{EventID: "evt-123"})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	for i, tr := range []*mockTransport{tr1, tr2, tr3} {
		packets := tr.getPackets()
		if len(packets) != 1 {
			t.Errorf("transport%d: expected 1 packet, got %d", i+1, len(packets))
		}
		if len(packets) > 0 && packets[0].EventID != "evt-123" {
			t.Errorf("transport%d: wrong event ID", i+1)
		}
	}
}

func TestTransport_Send_FirstSuccessWins(t *testing.T) {
	tr1 := &mockTransport{sendErr: errors.New("down")}
	tr2 := &mockTransport{resp: raven.Response{Status: 200, ID: "from-second"}}
	tr3 := &mockTransport{resp: raven.Response{Status: 200, ID: "from-third"}}
	multi := New(tr1, tr2, tr3)

	resp, err := multi.Send(context.Background(), raven.Packet{})
	if err != nil {
		t.Fatalf("Send should succeed when any transport succeeds: %v", err)
	}
	if resp.ID != "from-second" {
		t.Errorf("Response.ID = %q, want from-second", resp.ID)
	}
	if len(tr3.getPackets()) != 1 {
		t.Error("transport3 should still receive the packet")
	}
}

func TestTransport_Send_AggregatesErrors(t *testing.T) {
	err1 := errors.New("transport1 error")
	err2 := errors.New("transport2 error")
	multi := New(&mockTransport{sendErr: err1}, &mockTransport{sendErr: err2})

	_, err := multi.Send(context.Background(), raven.Packet{})
	if err == nil {
		t.Fatal("Send should return error when all transports fail")
	}
	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Errorf("Error should contain both errors: %v", err)
	}
}

func TestTransport_Close_ClosesClosers(t *testing.T) {
	tr1 := &mockTransport{}
	tr2 := &mockTransport{}
	multi := New(tr1, sendOnly{}, tr2)

	if err := multi.Close(); err != nil {
		t.Errorf("Close returned error: %v", err)
	}
	if !tr1.isClosed() || !tr2.isClosed() {
		t.Error("all closers should be closed")
	}
}

func TestTransport_Close_AggregatesErrors(t *testing.T) {
	err1 := errors.New("close error 1")
	err2 := errors.New("close error 2")
	multi := New(&mockTransport{closeErr: err1}, &mockTransport{closeErr: err2})

	err := multi.Close()
	if err == nil {
		t.Fatal("Close should return error")
	}
	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Error("Close should aggregate all errors")
	}
}

func TestTransport_Empty(t *testing.T) {
	multi := New()

	if _, err := multi.Send(context.Background(), raven.Packet{}); err != nil {
		t.Errorf("Send with no transports should return nil, got: %v", err)
	}
	if err := multi.Close(); err != nil {
		t.Errorf("Close with no transports should return nil, got: %v", err)
	}
}

func TestTransport_ClosedByClient(t *testing.T) {
	tr := &mockTransport{resp: raven.Response{Status: 200}}
	client := raven.NewClient(raven.WithTransport(New(tr)))

	if id := client.CaptureMessage(context.Background(), "fan out").Wait(); id == "" {
		t.Fatal("capture was not recorded")
	}
	if err := client.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !tr.isClosed() {
		t.Error("client Close should reach the wrapped transports")
	}
}
