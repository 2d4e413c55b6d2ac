package mapper

import "github.com/google/uuid"

// GenerateID returns a random version 4 UUID in canonical 8-4-4-4-12 form.
func GenerateID() string {
	return uuid.NewString()
}
