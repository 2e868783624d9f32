package frontend

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrInvalidAttemptID is returned when an attempt id is not a UUID.
	ErrInvalidAttemptID = errors.New("frontend: attempt id must be a 36-character UUID")

	// ErrInvalidHandshakeID is returned when a handshake id is not a UUID.
	ErrInvalidHandshakeID = errors.New("frontend: handshake id must be a 36-character UUID")
)

// The API encodes attempt and handshake ids as canonical UUID strings.
// Validating locally avoids a round trip for ids mangled in transit, e.g.
// truncated by a mail client.

func validateAttemptID(id string) error {
	if len(id) != 36 {
		return ErrInvalidAttemptID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidAttemptID
	}
	return nil
}

func validateHandshakeID(id string) error {
	if len(id) != 36 {
		return ErrInvalidHandshakeID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidHandshakeID
	}
	return nil
}
