package common

import (
	"crypto/rand"
	"math/big"
)

// passwordAlphabet is the character set used by RandomPassword.
const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()"

// RandomPassword returns a random credential of the given length drawn from
// letters, digits and a few symbols.
func RandomPassword(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been forwarded. Nil-safe.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
