package logrushook

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/strongdm/raven-observe/pkg/raven"
)

type recordingTransport struct {
	mu     sync.Mutex
	bodies []string
}

func (r *recordingTransport) Send(ctx context.Context, p raven.Packet) (raven.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bodies = append(r.bodies, string(p.Body))
	return raven.Response{Status: 200}, nil
}

func (r *recordingTransport) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.bodies...)
}

func newLogger(t *testing.T, opts ...Option) (*logrus.Logger, *recordingTransport, raven.Client) {
	t.Helper()
	transport := &recordingTransport{}
	client := raven.NewClient(raven.WithTransport(transport))
	t.Cleanup(func() { client.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(New(client, opts...))
	return logger, transport, client
}

func TestHook_ErrorEntryWithErrorBecomesException(t *testing.T) {
	logger, transport, client := newLogger(t)

	logger.WithError(errors.New("disk full")).WithField("path", "/var/data").Error("write failed")
	require.NoError(t, client.Flush(context.Background()))

	bodies := transport.all()
	require.Len(t, bodies, 1)
	body := bodies[0]

	assert.Equal(t, "error", gjson.Get(body, "level").String())
	assert.Equal(t, "logrus", gjson.Get(body, "logger").String())
	assert.Equal(t, "write failed: disk full", gjson.Get(body, "message").String())
	assert.Equal(t, "disk full", gjson.Get(body, "exception.values.0.value").String())
	assert.Equal(t, "/var/data", gjson.Get(body, "extra.path").String())
	assert.False(t, gjson.Get(body, "extra.error").Exists(), "the captured error is not repeated as extra")
}

func TestHook_ErrorEntryWithoutErrorBecomesMessage(t *testing.T) {
	logger, transport, client := newLogger(t)

	logger.WithField("attempt", 3).Error("retries exhausted")
	require.NoError(t, client.Flush(context.Background()))

	bodies := transport.all()
	require.Len(t, bodies, 1)
	assert.Equal(t, "retries exhausted", gjson.Get(bodies[0], "message").String())
	assert.False(t, gjson.Get(bodies[0], "exception").Exists())
	assert.Equal(t, int64(3), gjson.Get(bodies[0], "extra.attempt").Int())
}

func TestHook_DefaultLevelsIgnoreWarnings(t *testing.T) {
	logger, transport, client := newLogger(t)

	logger.Warn("just a warning")
	logger.Info("info")
	require.NoError(t, client.Flush(context.Background()))

	assert.Empty(t, transport.all())
}

func TestHook_WithLevels(t *testing.T) {
	logger, transport, client := newLogger(t, WithLevels(logrus.WarnLevel))

	logger.Warn("slow response")
	logger.Error("not captured")
	require.NoError(t, client.Flush(context.Background()))

	bodies := transport.all()
	require.Len(t, bodies, 1)
	assert.Equal(t, "warning", gjson.Get(bodies[0], "level").String())
}

func TestHook_UsesEntryContext(t *testing.T) {
	logger, transport, client := newLogger(t)

	ctx := raven.WithRunID(context.Background(), "run-42")
	logger.WithContext(ctx).Error("in a run")
	require.NoError(t, client.Flush(context.Background()))

	bodies := transport.all()
	require.Len(t, bodies, 1)
	assert.Equal(t, "run-42", gjson.Get(bodies[0], "tags.run_id").String())
}

func TestHook_NonErrorKeyErrorsAreStrings(t *testing.T) {
	logger, transport, client := newLogger(t)

	logger.WithField("cause", errors.New("upstream")).Error("failed")
	require.NoError(t, client.Flush(context.Background()))

	bodies := transport.all()
	require.Len(t, bodies, 1)
	assert.Equal(t, "upstream", gjson.Get(bodies[0], "extra.cause").String())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, raven.LevelFatal, levelFor(logrus.PanicLevel))
	assert.Equal(t, raven.LevelFatal, levelFor(logrus.FatalLevel))
	assert.Equal(t, raven.LevelError, levelFor(logrus.ErrorLevel))
	assert.Equal(t, raven.LevelWarning, levelFor(logrus.WarnLevel))
	assert.Equal(t, raven.LevelInfo, levelFor(logrus.InfoLevel))
	assert.Equal(t, raven.LevelDebug, levelFor(logrus.TraceLevel))
}
