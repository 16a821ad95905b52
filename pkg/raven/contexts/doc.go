// Package contexts holds the structured metadata blocks attached to every
// captured event: operating system, runtime, device, app, trace and user.
//
// Each record is a plain value. The zero value leaves every field unset and
// encodes as {}. String fields are unset when empty; optional booleans are
// pointers so that an explicit false is still written. The Capture* helpers
// probe the running process once and leave any fact they cannot determine
// unset.
package contexts

// Bool returns a pointer to v for the optional boolean fields.
func Bool(v bool) *bool {
	return &v
}
