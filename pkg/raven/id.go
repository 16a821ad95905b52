package raven

import (
	"strings"

	"github.com/google/uuid"
)

// NewEventID returns a random 32 character lowercase hex identifier:
// a version 4 UUID with the separators removed.
func NewEventID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidEventID reports whether id has the identifier form produced by NewEventID.
func ValidEventID(id string) bool {
	if len(id) != 32 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
