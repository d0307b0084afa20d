package uuidv7

import "github.com/google/uuid"

// NewString returns a time-ordered UUIDv7 string.
func NewString() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
