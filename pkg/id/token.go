package id

import (
	"crypto/rand"
	"encoding/hex"
)

// SecureToken returns a hex-encoded random token of byteLen random bytes.
// Used where an unguessable single-use token is required.
func SecureToken(byteLen int) string {
	if byteLen <= 0 {
		byteLen = 32
	}
	buf := make([]byte, byteLen)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
