// event.go defines the canonical captured-event data structure for raven.

package raven

import (
	"time"

	"github.com/strongdm/raven-observe/pkg/raven/contexts"
)

// Level indicates the severity of an event.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelDebug, LevelInfo, LevelWarning, LevelError, LevelFatal:
		return true
	}
	return false
}

// Event is one reported occurrence, ready for transmission.
// Field order matches the wire order.
type Event struct {
	// EventID is a 32 character lowercase hex identifier.
	// Assigned at capture time when empty and never changed afterwards.
	EventID string

	// Timestamp is when the event occurred. Encoded in UTC.
	Timestamp time.Time

	Level    Level
	Platform string

	// Logger names the component that produced the event.
	Logger string

	Release     string
	Environment string
	ServerName  string
	Transaction string

	// Message is the human-readable description. Empty means none.
	Message string

	// Exception is the captured error chain, innermost (root cause) first.
	Exception []Exception

	Tags  map[string]string
	Extra map[string]any

	// Fingerprint guides server-side grouping.
	Fingerprint []string

	Contexts Contexts
	User     *contexts.User

	// Breadcrumbs is the trail of operations leading up to the event, oldest first.
	Breadcrumbs []Breadcrumb

	SDK *SDK

	// Err is expanded into Exception by CaptureEvent. It is never serialized.
	Err error

	// Mechanism is attached to the outermost link when Err is expanded.
	Mechanism *Mechanism
}

// NewEvent returns an event whose optional containers are non-nil and whose
// fingerprint requests default grouping.
func NewEvent() *Event {
	return &Event{
		Tags:        make(map[string]string),
		Extra:       make(map[string]any),
		Fingerprint: []string{DefaultFingerprint},
	}
}

// Contexts is the set of context records attached to an event.
type Contexts struct {
	OS      contexts.OperatingSystem
	Runtime contexts.Runtime
	Device  contexts.Device
	App     contexts.App
	Trace   contexts.Trace
}

// Exception is one link of a captured error chain.
type Exception struct {
	// Type is the Go type of the error, e.g. "*fs.PathError".
	Type string

	// Value is the error message.
	Value string

	// Module is the package path declaring Type.
	Module string

	Mechanism  *Mechanism
	Stacktrace []Frame
}

// Mechanism describes how an exception was captured.
type Mechanism struct {
	Type string

	// Handled is false for panics that were recovered only by raven.
	Handled *bool
}

// Frame is a single stack frame, ordered oldest call first within a trace.
type Frame struct {
	Function string
	Module   string
	Filename string
	AbsPath  string
	Lineno   int
	Colno    int

	// InApp separates application frames from library frames.
	// Always written, false included.
	InApp bool
}

// Breadcrumb records an operation that preceded an event.
type Breadcrumb struct {
	Timestamp time.Time
	Type      string
	Category  string
	Message   string
	Level     Level
	Data      map[string]any
}

// SDK identifies the client library.
type SDK struct {
	Name    string
	Version string
}

// clone returns a copy of e whose maps and slices are not shared with e.
func (e *Event) clone() *Event {
	c := *e
	if e.Tags != nil {
		c.Tags = make(map[string]string, len(e.Tags))
		for k, v := range e.Tags {
			c.Tags[k] = v
		}
	}
	if e.Extra != nil {
		c.Extra = make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			c.Extra[k] = v
		}
	}
	if e.Fingerprint != nil {
		c.Fingerprint = append([]string(nil), e.Fingerprint...)
	}
	if e.Exception != nil {
		c.Exception = append([]Exception(nil), e.Exception...)
	}
	if e.Breadcrumbs != nil {
		c.Breadcrumbs = append([]Breadcrumb(nil), e.Breadcrumbs...)
	}
	if e.User != nil {
		u := *e.User
		c.User = &u
	}
	if e.SDK != nil {
		s := *e.SDK
		c.SDK = &s
	}
	if e.Mechanism != nil {
		m := *e.Mechanism
		c.Mechanism = &m
	}
	return &c
}
