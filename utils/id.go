package utils

import (
	"github.com/segmentio/ksuid"
)

// GenerateID returns a time-ordered unique ID, used for request IDs.
func GenerateID() string {
	return ksuid.New().String()
}
