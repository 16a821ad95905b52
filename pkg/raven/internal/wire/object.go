// Package wire writes JSON objects with a fixed key order and omit-if-default
// field semantics. Every payload raven sends is built with it.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// TimeLayout is the timestamp form used on the wire: UTC, millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// Object accumulates the members of a single JSON object in call order.
// The zero value is ready to use.
type Object struct {
	buf bytes.Buffer
	n   int
}

func (o *Object) key(k string) {
	if o.n == 0 {
		o.buf.WriteByte('{')
	} else {
		o.buf.WriteByte(',')
	}
	o.n++
	writeString(&o.buf, k)
	o.buf.WriteByte(':')
}

// String writes k only when v is non-empty.
func (o *Object) String(k, v string) {
	if v == "" {
		return
	}
	o.key(k)
	writeString(&o.buf, v)
}

// OptionalBool writes k whenever v is non-nil, including false.
func (o *Object) OptionalBool(k string, v *bool) {
	if v == nil {
		return
	}
	o.Bool(k, *v)
}

// Bool always writes k.
func (o *Object) Bool(k string, v bool) {
	o.key(k)
	if v {
		o.buf.WriteString("true")
	} else {
		o.buf.WriteString("false")
	}
}

// Int writes k only when v is non-zero.
func (o *Object) Int(k string, v int64) {
	if v == 0 {
		return
	}
	o.key(k)
	fmt.Fprintf(&o.buf, "%d", v)
}

// Float writes k only when v is non-zero.
func (o *Object) Float(k string, v float64) {
	if v == 0 {
		return
	}
	o.key(k)
	b, err := json.Marshal(v)
	if err != nil {
		// NaN and Inf have no JSON form.
		writeString(&o.buf, fmt.Sprint(v))
		return
	}
	o.buf.Write(b)
}

// Time writes k in TimeLayout only when t is non-zero. t is converted to UTC.
func (o *Object) Time(k string, t time.Time) {
	if t.IsZero() {
		return
	}
	o.key(k)
	writeString(&o.buf, t.UTC().Format(TimeLayout))
}

// Strings writes k as an array only when v is non-empty.
func (o *Object) Strings(k string, v []string) {
	if len(v) == 0 {
		return
	}
	o.key(k)
	o.buf.WriteByte('[')
	for i, s := range v {
		if i > 0 {
			o.buf.WriteByte(',')
		}
		writeString(&o.buf, s)
	}
	o.buf.WriteByte(']')
}

// StringMap writes k as an object with sorted keys only when m is non-empty.
func (o *Object) StringMap(k string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	var inner Object
	for _, mk := range sortedKeys(m) {
		inner.key(mk)
		writeString(&inner.buf, m[mk])
	}
	o.Raw(k, inner.Bytes())
}

// AnyMap writes k as an object with sorted keys only when m is non-empty.
// Values that encoding/json rejects are written as their fmt string form.
func (o *Object) AnyMap(k string, m map[string]any) {
	if len(m) == 0 {
		return
	}
	var inner Object
	for _, mk := range sortedKeys(m) {
		inner.key(mk)
		writeValue(&inner.buf, m[mk])
	}
	o.Raw(k, inner.Bytes())
}

// Object writes the JSON form of m under k, skipping it when m is nil or
// renders as an empty object.
func (o *Object) Object(k string, m json.Marshaler) {
	if m == nil {
		return
	}
	b, err := m.MarshalJSON()
	if err != nil {
		return
	}
	o.Raw(k, b)
}

// Array writes k as an array of pre-encoded elements only when items is non-empty.
func (o *Object) Array(k string, items [][]byte) {
	if len(items) == 0 {
		return
	}
	o.key(k)
	o.buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			o.buf.WriteByte(',')
		}
		o.buf.Write(item)
	}
	o.buf.WriteByte(']')
}

// Raw writes pre-encoded JSON under k unless it is empty, null, {} or [].
func (o *Object) Raw(k string, b []byte) {
	if IsEmpty(b) {
		return
	}
	o.key(k)
	o.buf.Write(b)
}

// Bytes returns the encoded object. An object with no members encodes as {}.
func (o *Object) Bytes() []byte {
	if o.n == 0 {
		return []byte("{}")
	}
	out := make([]byte, 0, o.buf.Len()+1)
	out = append(out, o.buf.Bytes()...)
	return append(out, '}')
}

// Len reports how many members have been written.
func (o *Object) Len() int {
	return o.n
}

// IsEmpty reports whether b is an encoding that carries no data.
func IsEmpty(b []byte) bool {
	s := string(bytes.TrimSpace(b))
	return s == "" || s == "null" || s == "{}" || s == "[]"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	trimNewline(buf)
}

func writeValue(buf *bytes.Buffer, v any) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		writeString(buf, fmt.Sprintf("%v", v))
		return
	}
	trimNewline(&tmp)
	buf.Write(tmp.Bytes())
}

func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}
