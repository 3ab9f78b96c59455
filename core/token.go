package core

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// tokenBytes is the raw entropy per session token. 32 bytes = 256 bits,
// comfortably above the 128-bit floor for unguessable bearer tokens.
const tokenBytes = 32

// NewToken returns an opaque URL-safe bearer token with nbytes of entropy.
func NewToken(nbytes int) (string, error) {
	if nbytes < 16 {
		return "", errors.New("token size too small")
	}
	b := make([]byte, nbytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
