package id

import "github.com/teris-io/shortid"

// ShortId generates a short url-safe id.
func ShortId() string {
	sid, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return sid
}
