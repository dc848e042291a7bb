package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is an active pairing between two participants.
// It exists iff both participants' Partner fields point at each other.
// EpochA and EpochB are the epochs allocated to each side when the pair
// was committed; deferred expiry actions validate against them.
type Session struct {
	ID        uuid.UUID
	A         string
	B         string
	EpochA    uint64
	EpochB    uint64
	CreatedAt time.Time
}

// Other returns the id facing the given participant within the session.
func (s Session) Other(id string) (string, bool) {
	switch id {
	case s.A:
		return s.B, true
	case s.B:
		return s.A, true
	default:
		return "", false
	}
}
