package address

import (
	"encoding/binary"

	"github.com/iov-one/quorum"
)

// SeedLength is the length of the record seed used by Derive.
const SeedLength = 8

// Seed encodes a record seed the way it is stored in records.
func Seed(n uint64) [SeedLength]byte {
	var s [SeedLength]byte
	binary.LittleEndian.PutUint64(s[:], n)
	return s
}

// Derive returns the address of a record kept in the namespace of a
// program, identified by its seed and bump.
func Derive(program quorum.Pubkey, namespace string, seed [SeedLength]byte, bump uint8) (quorum.Pubkey, error) {
	return Create(program, []byte(namespace), seed[:], []byte{bump})
}

// FindDerived returns the address and bump of a record kept in the
// namespace of a program.
func FindDerived(program quorum.Pubkey, namespace string, seed [SeedLength]byte) (quorum.Pubkey, uint8, error) {
	return Find(program, []byte(namespace), seed[:])
}

// VerifyDerived checks that claimed is the address of a record with
// given seed and bump.
func VerifyDerived(claimed, program quorum.Pubkey, namespace string, seed [SeedLength]byte, bump uint8) error {
	return Verify(claimed, program, []byte(namespace), seed[:], []byte{bump})
}
