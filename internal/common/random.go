package common

import (
	"crypto/rand"
	"math/big"
)

// idAlphabet is the set of characters identifiers are drawn from.
const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// MakeRandString generates a random string of the given length, with each
// character drawn uniformly from a lowercase alphanumeric alphabet.
//
// It returns an error if the random number generator fails. A non-positive
// length yields an empty string.
func MakeRandString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}

	max := big.NewInt(int64(len(idAlphabet)))

	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = idAlphabet[n.Int64()]
	}

	return string(b), nil
}
