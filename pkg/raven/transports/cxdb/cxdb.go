// Package cxdb provides a transport that persists packets to cxdb as SystemMessage items.
package cxdb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	cxdbclient "github.com/strongdm/ai-cxdb/clients/go"
	cxdtypes "github.com/strongdm/ai-cxdb/clients/go/types"
	"github.com/tidwall/gjson"

	"github.com/strongdm/raven-observe/pkg/raven"
	"github.com/strongdm/raven-observe/pkg/raven/internal/wire"
)

const (
	maxMsgLen   = 80
	maxTitleLen = 100
)

// CXDBClient is the minimal interface for cxdb client operations.
// The real *cxdb.Client satisfies this interface.
type CXDBClient interface {
	CreateContext(ctx context.Context, baseTurnID uint64) (*cxdbclient.ContextHead, error)
	AppendTurn(ctx context.Context, req *cxdbclient.AppendRequest) (*cxdbclient.AppendResult, error)
}

// Option configures the cxdb transport.
type Option func(*Transport)

// WithOrphanLabels sets labels for contexts created for unlinked events.
func WithOrphanLabels(labels []string) Option {
	return func(t *Transport) {
		t.orphanLabels = labels
	}
}

// WithClientTag sets the client tag for contexts created for unlinked events.
func WithClientTag(tag string) Option {
	return func(t *Transport) {
		t.clientTag = tag
	}
}

// Transport appends every packet to a cxdb context. Packets sent with a
// context carrying raven.WithContextID join that conversation; others get a
// new orphan context.
type Transport struct {
	client       CXDBClient
	orphanLabels []string
	clientTag    string
	now          func() time.Time
}

// New creates a transport that writes to cxdb.
func New(client CXDBClient, opts ...Option) *Transport {
	t := &Transport{
		client:       client,
		orphanLabels: []string{"error", "unlinked"},
		clientTag:    "raven",
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send implements raven.Transport. The response carries the event ID and the
// cxdb context the packet was appended to.
func (t *Transport) Send(ctx context.Context, p raven.Packet) (raven.Response, error) {
	contextID, linked := raven.ContextIDFromContext(ctx)
	if !linked {
		head, err := t.client.CreateContext(ctx, 0)
		if err != nil {
			return raven.Response{}, fmt.Errorf("create orphan context: %w", err)
		}
		contextID = head.ContextID
	}

	item := t.buildConversationItem(p, !linked)

	// Encode to msgpack using the official cxdb encoder.
	payload, err := cxdbclient.EncodeMsgpack(item)
	if err != nil {
		return raven.Response{}, fmt.Errorf("encode payload: %w", err)
	}

	req := &cxdbclient.AppendRequest{
		ContextID:      contextID,
		ParentTurnID:   0,
		TypeID:         cxdtypes.TypeIDConversationItem,
		TypeVersion:    cxdtypes.TypeVersionConversationItem,
		Payload:        payload,
		IdempotencyKey: idempotencyKey(p),
	}
	if _, err := t.client.AppendTurn(ctx, req); err != nil {
		return raven.Response{}, fmt.Errorf("append turn: %w", err)
	}

	resp := raven.Response{Status: 200}
	if p.Destination == raven.DestinationEvents {
		resp.ID = p.EventID
	}
	return resp, nil
}

func idempotencyKey(p raven.Packet) string {
	if p.Destination == raven.DestinationFeedback {
		return "feedback:" + p.EventID
	}
	return p.EventID
}

// buildConversationItem wraps the payload in a canonical ConversationItem.
// The raw packet body becomes the SystemMessage content.
func (t *Transport) buildConversationItem(p raven.Packet, isOrphan bool) *cxdtypes.ConversationItem {
	var title string
	timestamp := t.now()
	switch p.Destination {
	case raven.DestinationFeedback:
		title = feedbackTitle(p.Body)
	default:
		title = eventTitle(p.Body)
		if ts, err := time.Parse(wire.TimeLayout, gjson.GetBytes(p.Body, "timestamp").String()); err == nil {
			timestamp = ts
		}
	}

	item := &cxdtypes.ConversationItem{
		ItemType:  cxdtypes.ItemTypeSystem,
		Status:    cxdtypes.ItemStatusComplete,
		Timestamp: timestamp.UnixMilli(),
		ID:        p.EventID,
		System: &cxdtypes.SystemMessage{
			Kind:    cxdtypes.SystemKindError,
			Title:   title,
			Content: string(p.Body),
		},
	}

	// cxdb expects context metadata on the first turn of a context.
	if isOrphan {
		item.ContextMetadata = &cxdtypes.ContextMetadata{
			Labels:    t.orphanLabels,
			ClientTag: t.clientTag,
		}
	}
	return item
}

// eventTitle builds "type: message" from the outermost exception and the
// event message, falling back to the level.
func eventTitle(body []byte) string {
	var kind string
	if n := gjson.GetBytes(body, "exception.values.#").Int(); n > 0 {
		kind = gjson.GetBytes(body, fmt.Sprintf("exception.values.%d.type", n-1)).String()
	}
	if kind == "" {
		kind = gjson.GetBytes(body, "level").String()
	}
	if kind == "" {
		kind = "event"
	}
	return buildTitle(kind, gjson.GetBytes(body, "message").String())
}

func feedbackTitle(body []byte) string {
	form, err := url.ParseQuery(string(body))
	if err != nil {
		return "feedback"
	}
	return buildTitle("feedback", form.Get("comments"))
}

func buildTitle(kind, msg string) string {
	title := kind
	if msg != "" {
		if len(msg) > maxMsgLen {
			msg = msg[:maxMsgLen] + "..."
		}
		title = kind + ": " + msg
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}
	return title
}
