package app

import "github.com/google/uuid"

// newID allocates a slot identifier.
// Isolated here so the ID strategy can evolve independently.
func newID() uuid.UUID {
	return uuid.New()
}
