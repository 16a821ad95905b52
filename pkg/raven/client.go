// client.go provides the Client interface and the capture pipeline behind it.

package raven

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/strongdm/raven-observe/pkg/raven/contexts"
	"github.com/strongdm/raven-observe/pkg/raven/internal/wire"
)

// SDK identification sent with every event.
const (
	SDKName    = "raven-go"
	SDKVersion = "0.4.0"

	// Platform is the platform recorded on events.
	Platform = "go"
)

// Client captures events and delivers them through a transport.
// Capture calls never block on network I/O and never fail: the returned
// Pending resolves to the event ID once sent, or "" when nothing was recorded.
type Client interface {
	// CaptureEvent sends a caller-built event. The event is copied; the
	// caller's value is not modified. Panics if event is nil.
	CaptureEvent(ctx context.Context, event *Event) *Pending

	// CaptureException sends err and its cause chain at level error.
	// Panics if err is nil.
	CaptureException(ctx context.Context, err error, opts ...CaptureOption) *Pending

	// CaptureMessage sends message at level info.
	CaptureMessage(ctx context.Context, message string, opts ...CaptureOption) *Pending

	// SendUserFeedback sends feedback to the feedback endpoint. The Pending
	// resolves to "" on success, or the server's response on failure.
	SendUserFeedback(ctx context.Context, feedback UserFeedback) *Pending

	// Flush waits for in-flight sends to finish.
	Flush(ctx context.Context) error

	// Close flushes and releases the transport. Later captures resolve to "".
	Close() error
}

type captureKind int

const (
	kindEvent captureKind = iota
	kindException
	kindMessage
)

// captureInput is the single shape every capture call is reduced to.
type captureInput struct {
	kind    captureKind
	event   *Event
	err     error
	message string
	opts    captureOptions
}

// defaultClient is the standard Client implementation.
type defaultClient struct {
	cfg      *clientConfig
	rules    inAppRules
	contexts Contexts
	sdk      SDK
	dispatch *dispatcher
}

// NewClient creates a Client with the given options. Environment facts are
// probed once here and shared by every event the client builds.
func NewClient(opts ...Option) Client {
	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.serverName == "" {
		if host, err := os.Hostname(); err == nil {
			cfg.serverName = host
		}
	}

	c := &defaultClient{
		cfg:   cfg,
		rules: inAppRules{include: cfg.inAppInclude, exclude: cfg.inAppExclude},
		contexts: Contexts{
			OS:      contexts.CaptureOperatingSystemWith(cfg.osProbe),
			Runtime: contexts.CaptureRuntime(),
			Device:  contexts.CaptureDevice(),
			App:     contexts.CaptureApp(time.Now()),
		},
		sdk: SDK{Name: SDKName, Version: SDKVersion},
	}
	if cfg.transport != nil {
		c.dispatch = newDispatcher(cfg.transport, cfg.logger, cfg.maxInFlight, cfg.onDropped)
	}
	return c
}

// CaptureEvent implements Client.
func (c *defaultClient) CaptureEvent(ctx context.Context, event *Event) *Pending {
	if event == nil {
		panic("raven: CaptureEvent called with nil event")
	}
	return c.capture(ctx, captureInput{kind: kindEvent, event: event})
}

// CaptureException implements Client.
func (c *defaultClient) CaptureException(ctx context.Context, err error, opts ...CaptureOption) *Pending {
	if err == nil {
		panic("raven: CaptureException called with nil error")
	}
	return c.capture(ctx, captureInput{kind: kindException, err: err, opts: applyCaptureOptions(opts)})
}

// CaptureMessage implements Client.
func (c *defaultClient) CaptureMessage(ctx context.Context, message string, opts ...CaptureOption) *Pending {
	return c.capture(ctx, captureInput{kind: kindMessage, message: message, opts: applyCaptureOptions(opts)})
}

// SendUserFeedback implements Client.
func (c *defaultClient) SendUserFeedback(ctx context.Context, feedback UserFeedback) *Pending {
	if c.dispatch == nil {
		return Resolved(errDisabled.Error())
	}
	p := Packet{
		Destination: DestinationFeedback,
		EventID:     feedback.EventID,
		ContentType: ContentTypeForm,
		Body:        feedback.Encode(),
	}
	return c.dispatch.dispatch(ctx, p, func(resp Response, err error) string {
		if err == nil {
			return ""
		}
		c.cfg.logger.Warn("raven: failed to send user feedback",
			zap.String("event_id", feedback.EventID),
			zap.Error(err),
		)
		return failureText(resp, err)
	})
}

// Flush implements Client.
func (c *defaultClient) Flush(ctx context.Context) error {
	if c.dispatch == nil {
		return nil
	}
	return c.dispatch.flush(ctx)
}

// Close implements Client.
func (c *defaultClient) Close() error {
	if c.dispatch == nil {
		return nil
	}
	return c.dispatch.close()
}

// capture is the build, serialize and send routine shared by every capture shape.
func (c *defaultClient) capture(ctx context.Context, in captureInput) *Pending {
	if c.dispatch == nil || !c.sampled() {
		return Resolved("")
	}

	event := c.normalize(ctx, in)
	body, err := Serialize(event)
	if err != nil {
		c.cfg.logger.Warn("raven: failed to serialize event",
			zap.String("event_id", event.EventID),
			zap.Error(err),
		)
		return Resolved("")
	}

	p := Packet{
		Destination: DestinationEvents,
		EventID:     event.EventID,
		ContentType: ContentTypeJSON,
		Body:        body,
	}
	return c.dispatch.dispatch(ctx, p, func(resp Response, err error) string {
		if err != nil {
			c.cfg.logger.Warn("raven: failed to send event",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
			return ""
		}
		if resp.ID != "" {
			return resp.ID
		}
		return event.EventID
	})
}

func (c *defaultClient) sampled() bool {
	rate := c.cfg.sampleRate
	if rate >= 1 {
		return true
	}
	return rate > 0 && rand.Float64() < rate
}

// normalize turns any capture shape into a fresh, fully defaulted Event.
func (c *defaultClient) normalize(ctx context.Context, in captureInput) *Event {
	var event *Event
	var defaultLevel Level

	switch in.kind {
	case kindEvent:
		event = in.event.clone()
		if event.Err != nil && len(event.Exception) == 0 {
			event.Exception = exceptionsFromError(event.Err, c.rules)
			if n := len(event.Exception); n > 0 && event.Mechanism != nil {
				event.Exception[n-1].Mechanism = event.Mechanism
			}
		}
		if event.Message == "" && event.Err != nil {
			event.Message = event.Err.Error()
		}
		event.Err = nil
		event.Mechanism = nil
		defaultLevel = LevelInfo
		if len(event.Exception) > 0 {
			defaultLevel = LevelError
		}
	case kindException:
		event = NewEvent()
		event.Exception = exceptionsFromError(in.err, c.rules)
		event.Message = in.err.Error()
		defaultLevel = LevelError
	case kindMessage:
		event = NewEvent()
		event.Message = in.message
		defaultLevel = LevelInfo
	}

	if in.kind != kindEvent {
		in.opts.applyTo(event)
	}

	if event.EventID == "" {
		event.EventID = NewEventID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if !event.Level.Valid() {
		event.Level = defaultLevel
	}
	c.enrich(ctx, event)

	event.Fingerprint = normalizeFingerprint(event.Fingerprint)
	if c.cfg.scrubber != nil {
		c.cfg.scrubber.ScrubEvent(event)
	}
	return event
}

// enrich fills fields the event does not already carry from client defaults
// and from values attached to ctx.
func (c *defaultClient) enrich(ctx context.Context, event *Event) {
	if event.Platform == "" {
		event.Platform = Platform
	}
	if event.Release == "" {
		event.Release = c.cfg.release
	}
	if event.Environment == "" {
		event.Environment = c.cfg.environment
	}
	if event.ServerName == "" {
		event.ServerName = c.cfg.serverName
	}

	// Precedence, lowest first: client defaults, context, event.
	tags := make(map[string]string, len(c.cfg.defaultTags)+len(event.Tags))
	for k, v := range c.cfg.defaultTags {
		tags[k] = v
	}
	for k, v := range TagsFromContext(ctx) {
		tags[k] = v
	}
	if runID, ok := RunIDFromContext(ctx); ok {
		tags["run_id"] = runID
	}
	for k, v := range event.Tags {
		tags[k] = v
	}
	event.Tags = tags

	if isEmptyRecord(event.Contexts.OS) {
		event.Contexts.OS = c.contexts.OS
	}
	if isEmptyRecord(event.Contexts.Runtime) {
		event.Contexts.Runtime = c.contexts.Runtime
	}
	if isEmptyRecord(event.Contexts.Device) {
		event.Contexts.Device = c.contexts.Device
	}
	if isEmptyRecord(event.Contexts.App) {
		event.Contexts.App = c.contexts.App
	}
	if isEmptyRecord(event.Contexts.Trace) {
		if trace, ok := contexts.TraceFromContext(ctx); ok {
			event.Contexts.Trace = trace
		}
	}

	if event.User == nil {
		if user, ok := UserFromContext(ctx); ok && !user.IsZero() {
			event.User = &user
		}
	}
	if len(event.Breadcrumbs) == 0 {
		event.Breadcrumbs = BreadcrumbsFromContext(ctx)
	}
	if event.SDK == nil {
		sdk := c.sdk
		event.SDK = &sdk
	}
}

func applyCaptureOptions(opts []CaptureOption) captureOptions {
	var o captureOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o captureOptions) applyTo(event *Event) {
	if o.level != "" {
		event.Level = o.level
	}
	if o.message != "" {
		event.Message = o.message
	}
	if o.logger != "" {
		event.Logger = o.logger
	}
	for k, v := range o.tags {
		event.Tags[k] = v
	}
	for k, v := range o.extra {
		event.Extra[k] = v
	}
	if o.fingerprint != nil {
		event.Fingerprint = o.fingerprint
	}
	if o.user != nil {
		u := *o.user
		event.User = &u
	}
}

func isEmptyRecord(m json.Marshaler) bool {
	b, err := m.MarshalJSON()
	return err != nil || wire.IsEmpty(b)
}
