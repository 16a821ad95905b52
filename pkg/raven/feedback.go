package raven

import "net/url"

// UserFeedback is a comment left by a user about a captured event.
type UserFeedback struct {
	// EventID is the identifier returned when the event was captured.
	EventID  string
	Name     string
	Email    string
	Comments string
}

// Encode returns the form payload, fields in key order: comments, email, name.
func (f UserFeedback) Encode() []byte {
	values := url.Values{}
	values.Set("comments", f.Comments)
	values.Set("email", f.Email)
	values.Set("name", f.Name)
	return []byte(values.Encode())
}
