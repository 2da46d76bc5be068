package crypto

import (
	"crypto/rand"
	"io"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"golang.org/x/crypto/ed25519"
)

// SeedSize is the length of the seed a private key is derived from.
const SeedSize = ed25519.SeedSize

var _ quorum.Signer = (*PrivateKey)(nil)

// PrivateKey is an ed25519 signing key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenPrivKeyEd25519 returns a random new private key.
func GenPrivKeyEd25519() *PrivateKey {
	key, err := GenPrivKeyEd25519From(rand.Reader)
	if err != nil {
		panic(err)
	}
	return key
}

// GenPrivKeyEd25519From returns a new private key using given source of
// randomness.
func GenPrivKeyEd25519From(r io.Reader) (*PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return &PrivateKey{key: priv}, nil
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed length %d", len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Seed returns the seed this key was derived from. Store it to recreate
// the key with PrivKeyEd25519FromSeed.
func (p *PrivateKey) Seed() []byte {
	return p.key.Seed()
}

// Pubkey returns the identity of this key.
func (p *PrivateKey) Pubkey() quorum.Pubkey {
	var k quorum.Pubkey
	copy(k[:], p.key.Public().(ed25519.PublicKey))
	return k
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) ([]byte, error) {
	if len(p.key) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrState, "private key not initialized")
	}
	return ed25519.Sign(p.key, message), nil
}

// Verify verifies the signature was created with this message and public key
func Verify(pub quorum.Pubkey, message, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), message, sig)
}
