package multisig

import (
	"encoding/binary"
	"math"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// GroupNamespace is the address namespace of group records.
const GroupNamespace = "multisig"

const (
	// KeySize is the size of an identity key inside a record.
	KeySize = quorum.PubkeyLength

	// GroupHeaderSize is the size of the encoded GroupHeader.
	GroupHeaderSize = 26
)

// GroupHeader is the fixed part of a group record. It is followed by
// OwnerCount owner keys.
//
//   seed[8] | owner_count u64 | threshold u64 | nonce u8 | bump u8
type GroupHeader struct {
	Seed       [8]byte
	OwnerCount uint64
	Threshold  uint64
	// Nonce is reserved for versioning of owner set changes.
	Nonce uint8
	Bump  uint8
}

// Validate checks the threshold against the number of owners.
func (h GroupHeader) Validate() error {
	if h.OwnerCount == 0 {
		return errors.Wrap(ErrInvalidConfig, "no owners")
	}
	if h.Threshold == 0 || h.Threshold > h.OwnerCount {
		return errors.Wrapf(ErrInvalidConfig, "threshold %d for %d owners", h.Threshold, h.OwnerCount)
	}
	return nil
}

// MarshalTo writes the header into the first GroupHeaderSize bytes of
// dst.
func (h GroupHeader) MarshalTo(dst []byte) {
	_ = dst[GroupHeaderSize-1]
	copy(dst[0:8], h.Seed[:])
	binary.LittleEndian.PutUint64(dst[8:16], h.OwnerCount)
	binary.LittleEndian.PutUint64(dst[16:24], h.Threshold)
	dst[24] = h.Nonce
	dst[25] = h.Bump
}

// Bytes returns the encoded header.
func (h GroupHeader) Bytes() []byte {
	b := make([]byte, GroupHeaderSize)
	h.MarshalTo(b)
	return b
}

func readGroupHeader(src []byte) GroupHeader {
	var h GroupHeader
	copy(h.Seed[:], src[0:8])
	h.OwnerCount = binary.LittleEndian.Uint64(src[8:16])
	h.Threshold = binary.LittleEndian.Uint64(src[16:24])
	h.Nonce = src[24]
	h.Bump = src[25]
	return h
}

// OwnerList is a view of consecutive owner keys. It references the
// buffer it was parsed from.
type OwnerList []byte

// NewOwnerList encodes given keys.
func NewOwnerList(keys ...quorum.Pubkey) OwnerList {
	l := make(OwnerList, len(keys)*KeySize)
	for i, k := range keys {
		copy(l[i*KeySize:], k[:])
	}
	return l
}

// Len returns the number of owners.
func (l OwnerList) Len() int {
	return len(l) / KeySize
}

// At returns the i-th owner.
func (l OwnerList) At(i int) quorum.Pubkey {
	var k quorum.Pubkey
	copy(k[:], l[i*KeySize:(i+1)*KeySize])
	return k
}

// Count returns how many times key is listed.
func (l OwnerList) Count(key quorum.Pubkey) int {
	var n int
	for i := 0; i < l.Len(); i++ {
		if l.At(i) == key {
			n++
		}
	}
	return n
}

// Contains returns true if key is listed.
func (l OwnerList) Contains(key quorum.Pubkey) bool {
	for i := 0; i < l.Len(); i++ {
		if l.At(i) == key {
			return true
		}
	}
	return false
}

// HasDuplicates returns true if any key is listed more than once.
func (l OwnerList) HasDuplicates() bool {
	for i := 0; i < l.Len(); i++ {
		k := l.At(i)
		for j := i + 1; j < l.Len(); j++ {
			if l.At(j) == k {
				return true
			}
		}
	}
	return false
}

// Keys returns a copy of all owners.
func (l OwnerList) Keys() []quorum.Pubkey {
	keys := make([]quorum.Pubkey, l.Len())
	for i := range keys {
		keys[i] = l.At(i)
	}
	return keys
}

// GroupSize returns the size of a group record with given number of
// owners.
func GroupSize(owners uint64) (uint64, error) {
	if owners > (math.MaxUint64-GroupHeaderSize)/KeySize {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d owners", owners)
	}
	return GroupHeaderSize + owners*KeySize, nil
}

// ParseGroup interprets buf as a group record. The returned owners
// reference buf. Bytes past the declared size are ignored.
func ParseGroup(buf []byte) (GroupHeader, OwnerList, error) {
	if len(buf) < GroupHeaderSize {
		return GroupHeader{}, nil, errors.Wrapf(errors.ErrMalformed, "group header needs %d bytes, got %d", GroupHeaderSize, len(buf))
	}
	h := readGroupHeader(buf)
	size, err := GroupSize(h.OwnerCount)
	if err != nil {
		return GroupHeader{}, nil, errors.Wrap(errors.ErrMalformed, err.Error())
	}
	if size > uint64(len(buf)) {
		return GroupHeader{}, nil, errors.Wrapf(errors.ErrMalformed, "group of %d owners needs %d bytes, got %d", h.OwnerCount, size, len(buf))
	}
	return h, OwnerList(buf[GroupHeaderSize:size]), nil
}

// WriteGroup serializes the record into dst, which must be at least
// GroupSize bytes long.
func WriteGroup(dst []byte, h GroupHeader, owners OwnerList) error {
	if uint64(owners.Len()) != h.OwnerCount || len(owners)%KeySize != 0 {
		return errors.Wrapf(errors.ErrHuman, "%d owners declared, %d bytes given", h.OwnerCount, len(owners))
	}
	size, err := GroupSize(h.OwnerCount)
	if err != nil {
		return err
	}
	if uint64(len(dst)) < size {
		return errors.Wrapf(errors.ErrMalformed, "group needs %d bytes, got %d", size, len(dst))
	}
	h.MarshalTo(dst)
	copy(dst[GroupHeaderSize:size], owners)
	return nil
}

// EncodeGroup returns the encoded group record.
func EncodeGroup(h GroupHeader, owners OwnerList) ([]byte, error) {
	size, err := GroupSize(h.OwnerCount)
	if err != nil {
		return nil, err
	}
	if size > math.MaxInt32 {
		return nil, errors.Wrapf(errors.ErrOverflow, "group of %d bytes", size)
	}
	buf := make([]byte, size)
	if err := WriteGroup(buf, h, owners); err != nil {
		return nil, err
	}
	return buf, nil
}
