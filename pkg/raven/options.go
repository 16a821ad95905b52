// options.go holds the functional options for clients and individual captures.

package raven

import (
	"math"

	"go.uber.org/zap"

	"github.com/strongdm/raven-observe/pkg/raven/contexts"
)

// DefaultMaxInFlight bounds concurrent sends for a client built without WithMaxInFlight.
const DefaultMaxInFlight = 100

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	transport    Transport
	logger       *zap.Logger
	release      string
	environment  string
	serverName   string
	defaultTags  map[string]string
	sampleRate   float64
	maxInFlight  int64
	onDropped    func(eventID string)
	inAppInclude []string
	inAppExclude []string
	scrubber     *Scrubber
	osProbe      contexts.Probe
}

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		logger:      zap.NewNop(),
		sampleRate:  1,
		maxInFlight: DefaultMaxInFlight,
		osProbe:     contexts.SystemProbe,
	}
}

// WithTransport sets the transport events and feedback are sent through.
// A client without a transport is disabled.
func WithTransport(t Transport) Option {
	return func(c *clientConfig) {
		c.transport = t
	}
}

// WithLogger sets the logger used for delivery failures and dropped events.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRelease sets the release recorded on events that do not carry one.
func WithRelease(release string) Option {
	return func(c *clientConfig) {
		c.release = release
	}
}

// WithEnvironment sets the environment recorded on events that do not carry one.
func WithEnvironment(environment string) Option {
	return func(c *clientConfig) {
		c.environment = environment
	}
}

// WithServerName sets the server name recorded on events that do not carry one.
func WithServerName(name string) Option {
	return func(c *clientConfig) {
		c.serverName = name
	}
}

// WithDefaultTags sets tags added to every event. Tags set on the context or
// the capture call take precedence.
func WithDefaultTags(tags map[string]string) Option {
	return func(c *clientConfig) {
		if c.defaultTags == nil {
			c.defaultTags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			c.defaultTags[k] = v
		}
	}
}

// WithSampleRate sets the fraction of events that are sent, clamped to [0, 1].
// NaN keeps every event. Feedback is never sampled.
func WithSampleRate(rate float64) Option {
	return func(c *clientConfig) {
		switch {
		case math.IsNaN(rate):
			rate = 1
		case rate < 0:
			rate = 0
		case rate > 1:
			rate = 1
		}
		c.sampleRate = rate
	}
}

// WithMaxInFlight bounds the number of concurrent sends (default: 100).
// Captures beyond the bound are dropped.
func WithMaxInFlight(n int) Option {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxInFlight = int64(n)
		}
	}
}

// WithOnDropped sets a callback invoked with the event ID of every capture
// dropped because too many sends were in flight.
func WithOnDropped(fn func(eventID string)) Option {
	return func(c *clientConfig) {
		c.onDropped = fn
	}
}

// WithInAppInclude marks frames whose package path has one of prefixes as
// application frames. Include rules win over exclude rules.
func WithInAppInclude(prefixes ...string) Option {
	return func(c *clientConfig) {
		c.inAppInclude = append(c.inAppInclude, prefixes...)
	}
}

// WithInAppExclude marks frames whose package path has one of prefixes as
// library frames.
func WithInAppExclude(prefixes ...string) Option {
	return func(c *clientConfig) {
		c.inAppExclude = append(c.inAppExclude, prefixes...)
	}
}

// WithScrubber enables scrubbing with a custom configuration.
func WithScrubber(cfg ScrubberConfig) Option {
	return func(c *clientConfig) {
		c.scrubber = NewScrubber(cfg)
	}
}

// WithDefaultScrubbing enables scrubbing with production-safe defaults.
func WithDefaultScrubbing() Option {
	return func(c *clientConfig) {
		c.scrubber = NewScrubber(DefaultScrubberConfig())
	}
}

// WithOSProbe replaces the probe used to fill the operating system context.
func WithOSProbe(probe contexts.Probe) Option {
	return func(c *clientConfig) {
		c.osProbe = probe
	}
}

// CaptureOption adjusts a single CaptureException or CaptureMessage call.
type CaptureOption func(*captureOptions)

type captureOptions struct {
	level       Level
	message     string
	logger      string
	tags        map[string]string
	fingerprint []string
	extra       map[string]any
	user        *contexts.User
}

// WithLevel overrides the default level: error for exceptions, info for messages.
func WithLevel(level Level) CaptureOption {
	return func(o *captureOptions) {
		o.level = level
	}
}

// WithMessage sets the event message of a captured exception, which otherwise
// defaults to the error's own message.
func WithMessage(message string) CaptureOption {
	return func(o *captureOptions) {
		o.message = message
	}
}

// WithTags adds tags to the event.
func WithTags(tags map[string]string) CaptureOption {
	return func(o *captureOptions) {
		if o.tags == nil {
			o.tags = make(map[string]string, len(tags))
		}
		for k, v := range tags {
			o.tags[k] = v
		}
	}
}

// WithFingerprint sets the grouping keys of the event.
func WithFingerprint(keys ...string) CaptureOption {
	return func(o *captureOptions) {
		o.fingerprint = append([]string(nil), keys...)
	}
}

// WithExtra adds arbitrary data to the event.
func WithExtra(extra map[string]any) CaptureOption {
	return func(o *captureOptions) {
		if o.extra == nil {
			o.extra = make(map[string]any, len(extra))
		}
		for k, v := range extra {
			o.extra[k] = v
		}
	}
}

// WithUser attributes the event to user, overriding any user on the context.
func WithUser(user contexts.User) CaptureOption {
	return func(o *captureOptions) {
		o.user = &user
	}
}

// WithLoggerName sets the name of the component that produced the event.
func WithLoggerName(name string) CaptureOption {
	return func(o *captureOptions) {
		o.logger = name
	}
}
