// transport.go defines the narrow send contract the capture pipeline depends on.

package raven

import (
	"context"
	"errors"
	"fmt"
)

// Destination selects the remote endpoint for a packet.
type Destination int

const (
	// DestinationEvents receives serialized events as JSON.
	DestinationEvents Destination = iota

	// DestinationFeedback receives user feedback as a URL-encoded form.
	DestinationFeedback
)

func (d Destination) String() string {
	switch d {
	case DestinationEvents:
		return "events"
	case DestinationFeedback:
		return "feedback"
	default:
		return fmt.Sprintf("destination(%d)", int(d))
	}
}

// Content types used for packets.
const (
	ContentTypeJSON = "application/json"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Packet is a serialized payload addressed to a destination.
type Packet struct {
	Destination Destination

	// EventID is the event the payload describes or refers to.
	EventID string

	ContentType string
	Body        []byte
}

// Response is what the remote end returned for a packet.
type Response struct {
	Status int

	// ID is the server-assigned event identifier, when the server returns one.
	ID string

	Body []byte
}

// Transport delivers packets. Implementations must be safe for concurrent use.
// Retries, if any, are the transport's concern.
type Transport interface {
	Send(ctx context.Context, p Packet) (Response, error)
}

// TransportError reports a response the server did not accept.
type TransportError struct {
	Status int
	Body   []byte
}

func (e *TransportError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("raven: server responded %d", e.Status)
	}
	return fmt.Sprintf("raven: server responded %d: %s", e.Status, e.Body)
}

// ErrClientClosed is returned by a closed client's transport path.
var ErrClientClosed = errors.New("raven: client closed")

// errDisabled marks a client constructed without a transport.
var errDisabled = errors.New("raven: client disabled")

// failureText is the feedback result for a failed send: the server's body when
// there is one, otherwise the error text.
func failureText(resp Response, err error) string {
	var te *TransportError
	if errors.As(err, &te) && len(te.Body) > 0 {
		return string(te.Body)
	}
	if len(resp.Body) > 0 {
		return string(resp.Body)
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
