package pastes

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// IDLength matches the 13-character base-36 ids of shared paste links.
const IDLength = 13

var idBase = big.NewInt(int64(len(idAlphabet)))

// NewID returns a cryptographically random base-36 id. Collisions are
// improbable at this length but are still caught by the primary key; the
// service retries with a fresh id on a unique violation.
func NewID() string {
	var b strings.Builder
	b.Grow(IDLength)
	for i := 0; i < IDLength; i++ {
		n, err := rand.Int(rand.Reader, idBase)
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			panic(err)
		}
		b.WriteByte(idAlphabet[n.Int64()])
	}
	return b.String()
}
