package quorumtest

import (
	"github.com/iov-one/quorum/crypto"
)

// NewKey returns a new random ed25519 key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewKeys returns n new random keys.
func NewKeys(n int) []*crypto.PrivateKey {
	keys := make([]*crypto.PrivateKey, n)
	for i := range keys {
		keys[i] = NewKey()
	}
	return keys
}
