package httptransport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strongdm/raven-observe/pkg/raven"
	"github.com/strongdm/raven-observe/pkg/raven/dsn"
)

func newTestTransport(t *testing.T, handler http.HandlerFunc, opts ...Option) *Transport {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	raw := strings.Replace(srv.URL, "http://", "http://public:secret@", 1) + "/42"
	base := []Option{WithRetryInterval(time.Millisecond, 5*time.Millisecond)}
	tr, err := NewFromDSN(raw, append(base, opts...)...)
	require.NoError(t, err)
	tr.now = func() time.Time { return time.Unix(1700000000, 0) }
	return tr
}

func eventPacket() raven.Packet {
	return raven.Packet{
		Destination: raven.DestinationEvents,
		EventID:     "0123456789abcdef0123456789abcdef",
		ContentType: raven.ContentTypeJSON,
		Body:        []byte(`{"event_id":"0123456789abcdef0123456789abcdef"}`),
	}
}

func TestTransport_SendEvent(t *testing.T) {
	var gotPath, gotAuth, gotType, gotBody string
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("X-Sentry-Auth")
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Write([]byte(`{"id":"fedcba9876543210fedcba9876543210"}`))
	})

	resp, err := tr.Send(context.Background(), eventPacket())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "fedcba9876543210fedcba9876543210", resp.ID)
	assert.Equal(t, "/api/42/store/", gotPath)
	assert.Equal(t, raven.ContentTypeJSON, gotType)
	assert.Equal(t, `{"event_id":"0123456789abcdef0123456789abcdef"}`, gotBody)
	assert.Contains(t, gotAuth, "sentry_key=public")
	assert.Contains(t, gotAuth, "sentry_secret=secret")
	assert.Contains(t, gotAuth, "sentry_timestamp=1700000000")
}

func TestTransport_SendFeedback(t *testing.T) {
	var gotPath, gotEventID, gotDSN, gotType string
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotEventID = r.URL.Query().Get("eventId")
		gotDSN = r.URL.Query().Get("dsn")
		gotType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	})

	feedback := raven.UserFeedback{EventID: "abc", Name: "Ada", Comments: "broken"}
	resp, err := tr.Send(context.Background(), raven.Packet{
		Destination: raven.DestinationFeedback,
		EventID:     feedback.EventID,
		ContentType: raven.ContentTypeForm,
		Body:        feedback.Encode(),
	})
	require.NoError(t, err)

	assert.Empty(t, resp.ID)
	assert.Equal(t, "/api/embed/error-page/", gotPath)
	assert.Equal(t, "abc", gotEventID)
	assert.NotContains(t, gotDSN, "secret")
	assert.Equal(t, raven.ContentTypeForm, gotType)
}

func TestTransport_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":"ok"}`))
	})

	resp, err := tr.Send(context.Background(), eventPacket())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.ID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestTransport_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithMaxRetries(2))

	_, err := tr.Send(context.Background(), eventPacket())

	var terr *raven.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusTooManyRequests, terr.Status)
	assert.Equal(t, int32(3), calls.Load(), "one attempt plus two retries")
}

func TestTransport_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"bad event"}`))
	})

	resp, err := tr.Send(context.Background(), eventPacket())

	var terr *raven.TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, `{"detail":"bad event"}`, string(terr.Body))
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTransport_CanceledContext(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tr.Send(ctx, eventPacket())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransport_WithClientEndToEnd(t *testing.T) {
	received := make(chan string, 1)
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		received <- string(b)
		w.WriteHeader(http.StatusOK)
	})

	client := raven.NewClient(raven.WithTransport(tr))
	defer client.Close()

	id := client.CaptureMessage(context.Background(), "over the wire").Wait()
	require.NotEmpty(t, id)
	assert.Contains(t, <-received, `"message":"over the wire"`)
}

func TestNewFromDSN_Invalid(t *testing.T) {
	_, err := NewFromDSN("not a dsn")
	assert.ErrorIs(t, err, dsn.ErrInvalidDSN)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvDSN, "")
	tr, err := FromEnv()
	require.NoError(t, err)
	assert.Nil(t, tr, "unset DSN yields a nil interface")

	t.Setenv(EnvDSN, "https://public@sentry.example.com/7")
	tr, err = FromEnv()
	require.NoError(t, err)
	require.NotNil(t, tr)
	assert.Equal(t, "https://sentry.example.com/api/7/store/", tr.(*Transport).dsn.StoreURL())

	t.Setenv(EnvDSN, "ftp://nope")
	_, err = FromEnv()
	assert.ErrorIs(t, err, dsn.ErrInvalidDSN)
}
