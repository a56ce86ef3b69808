package id

import (
	"strings"

	"github.com/google/uuid"
)

// GetUUIDWithoutDashes generates a new UUID without dashes.
func GetUUIDWithoutDashes() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
