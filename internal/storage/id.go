package storage

import "github.com/google/uuid"

// newID generates a fresh record identifier.
func newID() string {
	return uuid.New().String()
}
