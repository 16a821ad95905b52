// Package multi provides a transport that fans out to multiple transports.
// All transports receive all packets; errors are aggregated.
package multi

import (
	"context"
	"errors"
	"io"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// Transport fans out to multiple transports.
type Transport struct {
	transports []raven.Transport
}

// New creates a transport that sends to multiple transports.
func New(transports ...raven.Transport) *Transport {
	return &Transport{
		transports: transports,
	}
}

// Send delivers the packet to every transport, even when some fail. The
// response of the first transport that succeeds is returned; the send fails
// only when every transport failed, with their errors joined.
func (t *Transport) Send(ctx context.Context, p raven.Packet) (raven.Response, error) {
	var (
		errs      []error
		first     raven.Response
		succeeded bool
	)
	for _, tr := range t.transports {
		resp, err := tr.Send(ctx, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !succeeded {
			first, succeeded = resp, true
		}
	}
	if succeeded || len(t.transports) == 0 {
		return first, nil
	}
	return raven.Response{}, errors.Join(errs...)
}

// Close closes every transport that implements io.Closer, collecting any errors.
func (t *Transport) Close() error {
	var errs []error
	for _, tr := range t.transports {
		if c, ok := tr.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
