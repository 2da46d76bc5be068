/*
Package address derives storage addresses that belong to a program.

A derived address is the sha256 hash of a list of seeds and the program
identity. Only hashes that are not a valid ed25519 curve point are
accepted, so a derived address can never collide with a public key and
nobody can hold a private key for it. Records are located by
recomputing their address from the seeds stored inside the record,
instead of by following references.
*/
package address

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

const (
	// MaxSeeds is the maximum number of seeds a derivation accepts.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32
)

// marker is appended to every derivation so that the hash cannot be
// produced by any other hashing scheme in use.
const marker = "ProgramDerivedAddress"

var (
	// ErrAddressMismatch is returned when a storage reference does not
	// match the address derived from the record it holds.
	ErrAddressMismatch = errors.Register(200, "address mismatch")

	// ErrOnCurve is returned when the derived hash is a valid curve
	// point and cannot be used as a program address.
	ErrOnCurve = errors.Register(201, "derived address is on curve")

	// ErrMaxSeedLength is returned when too many or too long seeds are
	// provided.
	ErrMaxSeedLength = errors.Register(202, "seed length exceeded")
)

// Create returns the address derived from given seeds for given
// program.
func Create(program quorum.Pubkey, seeds ...[]byte) (quorum.Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return quorum.Pubkey{}, errors.Wrapf(ErrMaxSeedLength, "%d seeds", len(seeds))
	}

	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return quorum.Pubkey{}, errors.Wrapf(ErrMaxSeedLength, "seed %d is %d bytes", i, len(s))
		}
		h.Write(s)
	}
	h.Write(program[:])
	h.Write([]byte(marker))

	var addr quorum.Pubkey
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr) {
		return quorum.Pubkey{}, errors.Wrap(ErrOnCurve, addr.String())
	}
	return addr, nil
}

// Find searches for the first bump, starting from 255 and going down,
// for which Create(program, seeds..., []byte{bump}) succeeds. The bump
// must be stored alongside the seeds in order to recompute the address.
func Find(program quorum.Pubkey, seeds ...[]byte) (quorum.Pubkey, uint8, error) {
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := Create(program, withBump...)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case ErrOnCurve.Is(err):
			continue
		default:
			return quorum.Pubkey{}, 0, err
		}
	}
	return quorum.Pubkey{}, 0, errors.Wrap(ErrOnCurve, "no viable bump")
}

// Verify recomputes the address from given seeds and checks that it is
// equal to the claimed one. Any failure is reported as
// ErrAddressMismatch.
func Verify(claimed, program quorum.Pubkey, seeds ...[]byte) error {
	addr, err := Create(program, seeds...)
	if err != nil {
		return errors.Wrap(ErrAddressMismatch, err.Error())
	}
	if addr != claimed {
		return errors.Wrapf(ErrAddressMismatch, "want %s, got %s", addr, claimed)
	}
	return nil
}

// IsOnCurve returns true if given key is a valid ed25519 point
// encoding.
func IsOnCurve(key quorum.Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(key[:])
	return err == nil
}
