package id

import (
	"github.com/oklog/ulid/v2"
)

// GetULID generates a lexicographically sortable unique id. Ids minted
// within the same millisecond stay ordered.
func GetULID() string {
	return ulid.Make().String()
}
