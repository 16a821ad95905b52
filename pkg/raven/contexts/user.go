package contexts

import "github.com/strongdm/raven-observe/pkg/raven/internal/wire"

// User identifies the user affected by an event.
type User struct {
	ID        string
	Username  string
	Email     string
	IPAddress string
	Data      map[string]string
}

// MarshalJSON encodes the record with fixed key order, omitting unset fields.
func (u User) MarshalJSON() ([]byte, error) {
	var w wire.Object
	w.String("id", u.ID)
	w.String("username", u.Username)
	w.String("email", u.Email)
	w.String("ip_address", u.IPAddress)
	w.StringMap("data", u.Data)
	return w.Bytes(), nil
}

// IsZero reports whether every field is unset.
func (u User) IsZero() bool {
	return u.ID == "" && u.Username == "" && u.Email == "" && u.IPAddress == "" && len(u.Data) == 0
}
