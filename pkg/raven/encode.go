// encode.go is the JSON projection of Event. Keys follow field declaration
// order; null, empty and default values are omitted.

package raven

import (
	"encoding/json"

	"github.com/strongdm/raven-observe/pkg/raven/internal/wire"
)

// Serialize returns the wire form of e.
// The same event always serializes to the same bytes.
func Serialize(e *Event) ([]byte, error) {
	return e.MarshalJSON()
}

// MarshalJSON implements json.Marshaler.
func (e *Event) MarshalJSON() ([]byte, error) {
	var w wire.Object
	w.String("event_id", e.EventID)
	w.Time("timestamp", e.Timestamp)
	w.String("level", string(e.Level))
	w.String("platform", e.Platform)
	w.String("logger", e.Logger)
	w.String("release", e.Release)
	w.String("environment", e.Environment)
	w.String("server_name", e.ServerName)
	w.String("transaction", e.Transaction)
	w.String("message", e.Message)
	if len(e.Exception) > 0 {
		values := make([][]byte, 0, len(e.Exception))
		for _, ex := range e.Exception {
			values = append(values, ex.encode())
		}
		var exc wire.Object
		exc.Array("values", values)
		w.Raw("exception", exc.Bytes())
	}
	w.StringMap("tags", e.Tags)
	w.AnyMap("extra", e.Extra)
	if !IsDefaultFingerprint(e.Fingerprint) {
		w.Strings("fingerprint", e.Fingerprint)
	}
	w.Raw("contexts", e.Contexts.encode())
	if e.User != nil {
		w.Object("user", e.User)
	}
	if len(e.Breadcrumbs) > 0 {
		crumbs := make([][]byte, 0, len(e.Breadcrumbs))
		for _, b := range e.Breadcrumbs {
			crumbs = append(crumbs, b.encode())
		}
		var bw wire.Object
		bw.Array("values", crumbs)
		w.Raw("breadcrumbs", bw.Bytes())
	}
	if e.SDK != nil {
		w.Raw("sdk", e.SDK.encode())
	}
	return w.Bytes(), nil
}

var _ json.Marshaler = (*Event)(nil)

func (c Contexts) encode() []byte {
	var w wire.Object
	w.Object("os", c.OS)
	w.Object("runtime", c.Runtime)
	w.Object("device", c.Device)
	w.Object("app", c.App)
	w.Object("trace", c.Trace)
	return w.Bytes()
}

func (ex Exception) encode() []byte {
	var w wire.Object
	w.String("type", ex.Type)
	w.String("value", ex.Value)
	w.String("module", ex.Module)
	if ex.Mechanism != nil {
		var m wire.Object
		m.String("type", ex.Mechanism.Type)
		m.OptionalBool("handled", ex.Mechanism.Handled)
		w.Raw("mechanism", m.Bytes())
	}
	if len(ex.Stacktrace) > 0 {
		frames := make([][]byte, 0, len(ex.Stacktrace))
		for _, f := range ex.Stacktrace {
			frames = append(frames, f.encode())
		}
		var st wire.Object
		st.Array("frames", frames)
		w.Raw("stacktrace", st.Bytes())
	}
	return w.Bytes()
}

func (f Frame) encode() []byte {
	var w wire.Object
	w.String("function", f.Function)
	w.String("module", f.Module)
	w.String("filename", f.Filename)
	w.String("abs_path", f.AbsPath)
	w.Int("lineno", int64(f.Lineno))
	w.Int("colno", int64(f.Colno))
	w.Bool("in_app", f.InApp)
	return w.Bytes()
}

func (b Breadcrumb) encode() []byte {
	var w wire.Object
	w.Time("timestamp", b.Timestamp)
	w.String("type", b.Type)
	w.String("category", b.Category)
	w.String("message", b.Message)
	w.String("level", string(b.Level))
	w.AnyMap("data", b.Data)
	return w.Bytes()
}

func (s SDK) encode() []byte {
	var w wire.Object
	w.String("name", s.Name)
	w.String("version", s.Version)
	return w.Bytes()
}
