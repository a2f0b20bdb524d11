// Package cryptox provides the one-way password hashing used by the user
// and token resources. Digests are keyed with a process-wide secret, so
// equal passwords hash to equal digests within one deployment while a
// copied data directory alone is not enough to mount a dictionary attack.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// Hasher computes keyed BLAKE2b-256 digests of plaintext passwords.
type Hasher struct {
	secret []byte
}

// NewHasher returns a Hasher keyed with the given secret.
func NewHasher(secret string) *Hasher {
	return &Hasher{secret: []byte(secret)}
}

// Hash returns the hex-encoded keyed digest of the plaintext.
//
// The digest is deterministic for a fixed secret: verifying a submitted
// password is re-hashing it and comparing digests. An empty plaintext
// yields an empty digest so a blank password can never match a stored one.
func (h *Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	mac, err := blake2b.New256(h.secret)
	if err != nil {
		return "", err
	}
	mac.Write([]byte(plaintext))

	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify re-hashes the candidate plaintext and compares it against the
// stored digest in constant time.
func (h *Hasher) Verify(digest string, candidate string) bool {
	computed, err := h.Hash(candidate)
	if err != nil || computed == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(digest), []byte(computed)) == 1
}
