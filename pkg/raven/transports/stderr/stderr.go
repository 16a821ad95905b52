// Package stderr provides a transport that prints packets in human-readable format.
// Useful for development and debugging.
package stderr

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// Option configures the stderr transport.
type Option func(*Transport)

// WithVerbose enables printing the full payload after the summary.
func WithVerbose() Option {
	return func(t *Transport) {
		t.verbose = true
	}
}

// WithWriter redirects output, mostly for tests.
func WithWriter(w io.Writer) Option {
	return func(t *Transport) {
		t.out = w
	}
}

// Transport writes a summary of every packet to stderr.
type Transport struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	now     func() time.Time
}

// New creates a transport that writes to stderr.
func New(opts ...Option) *Transport {
	t := &Transport{
		out: os.Stderr,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send formats and outputs the packet. It never fails.
func (t *Transport) Send(ctx context.Context, p raven.Packet) (raven.Response, error) {
	var b strings.Builder
	switch p.Destination {
	case raven.DestinationFeedback:
		t.writeFeedback(&b, p)
	default:
		t.writeEvent(&b, p)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return raven.Response{}, fmt.Errorf("stderr: %w", err)
	}

	resp := raven.Response{Status: 200}
	if p.Destination == raven.DestinationEvents {
		resp.ID = p.EventID
	}
	return resp, nil
}

// writeEvent prints:
//
//	[RAVEN] <timestamp> <LEVEL> <exception type> (event: <id>)
func (t *Transport) writeEvent(b *strings.Builder, p raven.Packet) {
	body := gjson.ParseBytes(p.Body)

	timestamp := body.Get("timestamp").String()
	if timestamp == "" {
		timestamp = t.now().UTC().Format(time.RFC3339)
	}
	level := strings.ToUpper(body.Get("level").String())
	if level == "" {
		level = "EVENT"
	}

	parts := []string{"[RAVEN]", timestamp, level}
	if n := body.Get("exception.values.#").Int(); n > 0 {
		parts = append(parts, body.Get(fmt.Sprintf("exception.values.%d.type", n-1)).String())
	}
	parts = append(parts, fmt.Sprintf("(event: %s)", p.EventID))
	fmt.Fprintln(b, strings.Join(parts, " "))

	if msg := body.Get("message").String(); msg != "" {
		fmt.Fprintf(b, "        Message: %s\n", msg)
	}
	if fp := body.Get("fingerprint"); fp.Exists() {
		fmt.Fprintf(b, "        Fingerprint: %s\n", fp.Raw)
	}
	if tags := body.Get("tags"); tags.Exists() {
		var pairs []string
		tags.ForEach(func(key, value gjson.Result) bool {
			pairs = append(pairs, key.String()+"="+value.String())
			return true
		})
		fmt.Fprintf(b, "        Tags: %s\n", strings.Join(pairs, " "))
	}

	if t.verbose {
		fmt.Fprintf(b, "        Payload:\n")
		formatted := pretty.Pretty(p.Body)
		for _, line := range strings.Split(strings.TrimRight(string(formatted), "\n"), "\n") {
			fmt.Fprintf(b, "          %s\n", line)
		}
	}
}

func (t *Transport) writeFeedback(b *strings.Builder, p raven.Packet) {
	fmt.Fprintf(b, "[RAVEN] %s FEEDBACK (event: %s)\n", t.now().UTC().Format(time.RFC3339), p.EventID)
	form, err := url.ParseQuery(string(p.Body))
	if err != nil {
		return
	}
	if name := form.Get("name"); name != "" {
		fmt.Fprintf(b, "        From: %s <%s>\n", name, form.Get("email"))
	}
	if comments := form.Get("comments"); comments != "" {
		fmt.Fprintf(b, "        Comments: %s\n", comments)
	}
}
