// Package logrushook forwards logrus entries to a raven client.
package logrushook

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// LoggerName is the logger reported on events captured by the hook.
const LoggerName = "logrus"

// Option configures the hook.
type Option func(*Hook)

// WithLevels sets the entry levels that are captured (default: error and above).
func WithLevels(levels ...logrus.Level) Option {
	return func(h *Hook) {
		h.levels = levels
	}
}

// WithFlushTimeout bounds how long a fatal or panic entry waits for delivery
// before logrus exits or panics (default: 2s).
func WithFlushTimeout(d time.Duration) Option {
	return func(h *Hook) {
		h.flushTimeout = d
	}
}

// Hook is a logrus.Hook that captures entries as raven events. Entries whose
// logrus.ErrorKey field holds an error become exceptions; all others become
// messages. Remaining fields are attached as extra data.
type Hook struct {
	client       raven.Client
	levels       []logrus.Level
	flushTimeout time.Duration
}

var _ logrus.Hook = (*Hook)(nil)

// New creates a hook sending to client.
func New(client raven.Client, opts ...Option) *Hook {
	h := &Hook{
		client:       client,
		levels:       []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel},
		flushTimeout: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook. It never fails the log call.
func (h *Hook) Fire(entry *logrus.Entry) error {
	ctx := entry.Context
	if ctx == nil {
		ctx = context.Background()
	}

	opts := []raven.CaptureOption{
		raven.WithLevel(levelFor(entry.Level)),
		raven.WithLoggerName(LoggerName),
	}

	var cause error
	extra := make(map[string]any, len(entry.Data))
	for key, value := range entry.Data {
		if err, ok := value.(error); ok {
			if key == logrus.ErrorKey {
				cause = err
				continue
			}
			value = err.Error()
		}
		extra[key] = value
	}
	if len(extra) > 0 {
		opts = append(opts, raven.WithExtra(extra))
	}

	if cause != nil {
		if entry.Message != "" {
			opts = append(opts, raven.WithMessage(fmt.Sprintf("%s: %v", entry.Message, cause)))
		}
		h.client.CaptureException(ctx, cause, opts...)
	} else {
		h.client.CaptureMessage(ctx, entry.Message, opts...)
	}

	// logrus exits or panics right after firing these levels.
	if entry.Level <= logrus.FatalLevel {
		flushCtx, cancel := context.WithTimeout(context.Background(), h.flushTimeout)
		defer cancel()
		_ = h.client.Flush(flushCtx)
	}
	return nil
}

func levelFor(level logrus.Level) raven.Level {
	switch level {
	case logrus.PanicLevel, logrus.FatalLevel:
		return raven.LevelFatal
	case logrus.ErrorLevel:
		return raven.LevelError
	case logrus.WarnLevel:
		return raven.LevelWarning
	case logrus.InfoLevel:
		return raven.LevelInfo
	default:
		return raven.LevelDebug
	}
}
