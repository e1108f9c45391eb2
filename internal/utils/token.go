package utils

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateAccessToken returns a 32-character lowercase base-36 token for the
// customer page link. Uses crypto/rand; the token is the only key to a record.
func GenerateAccessToken() string {
	buf := make([]byte, 32)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure means the platform is broken; fall back to uuid bytes
			return uuid.NewString()[:32]
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf)
}

// NewID returns a new UUID string for record and photo primary keys.
func NewID() string {
	return uuid.NewString()
}
