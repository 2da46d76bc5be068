package multisig

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// ProposalNamespace is the address namespace of proposal records.
const ProposalNamespace = "transaction"

const (
	// ProposalHeaderSize is the size of the encoded ProposalHeader.
	ProposalHeaderSize = 98

	// AccountEntrySize is the size of one entry of the proposal action
	// account list.
	AccountEntrySize = KeySize + 2

	// SignerEntrySize is the size of one roster entry.
	SignerEntrySize = KeySize + 1
)

// Marker values of the single byte flags kept in records.
const (
	NotSigned uint8 = 0
	Signed    uint8 = 255

	NotExecuted uint8 = 0
	Executed    uint8 = 255
)

const executedOffset = 88

// ProposalHeader is the fixed part of a proposal record. It is
// followed by AccountCount account entries, SignerCount roster entries
// and PayloadLen bytes of payload.
//
//   group_ref[32] | target_ref[32] | account_count u64 |
//   signer_count u64 | payload_len u64 | executed u8 | seed[8] | bump u8
type ProposalHeader struct {
	GroupRef     quorum.Pubkey
	TargetRef    quorum.Pubkey
	AccountCount uint64
	SignerCount  uint64
	PayloadLen   uint64
	Executed     uint8
	Seed         [8]byte
	Bump         uint8
}

// IsExecuted returns true once the proposal was consumed.
func (h ProposalHeader) IsExecuted() bool {
	return h.Executed == Executed
}

// MarshalTo writes the header into the first ProposalHeaderSize bytes
// of dst.
func (h ProposalHeader) MarshalTo(dst []byte) {
	_ = dst[ProposalHeaderSize-1]
	copy(dst[0:32], h.GroupRef[:])
	copy(dst[32:64], h.TargetRef[:])
	binary.LittleEndian.PutUint64(dst[64:72], h.AccountCount)
	binary.LittleEndian.PutUint64(dst[72:80], h.SignerCount)
	binary.LittleEndian.PutUint64(dst[80:88], h.PayloadLen)
	dst[executedOffset] = h.Executed
	copy(dst[89:97], h.Seed[:])
	dst[97] = h.Bump
}

// Bytes returns the encoded header.
func (h ProposalHeader) Bytes() []byte {
	b := make([]byte, ProposalHeaderSize)
	h.MarshalTo(b)
	return b
}

func readProposalHeader(src []byte) ProposalHeader {
	var h ProposalHeader
	copy(h.GroupRef[:], src[0:32])
	copy(h.TargetRef[:], src[32:64])
	h.AccountCount = binary.LittleEndian.Uint64(src[64:72])
	h.SignerCount = binary.LittleEndian.Uint64(src[72:80])
	h.PayloadLen = binary.LittleEndian.Uint64(src[80:88])
	h.Executed = src[executedOffset]
	copy(h.Seed[:], src[89:97])
	h.Bump = src[97]
	return h
}

// MarkExecuted sets the executed flag of an encoded proposal in place.
func MarkExecuted(buf []byte) error {
	if len(buf) < ProposalHeaderSize {
		return errors.Wrap(errors.ErrMalformed, "proposal header")
	}
	buf[executedOffset] = Executed
	return nil
}

// AccountList is a view of the account entries of a proposal action.
type AccountList []byte

// NewAccountList encodes given account references.
func NewAccountList(metas ...quorum.AccountMeta) AccountList {
	l := make(AccountList, len(metas)*AccountEntrySize)
	for i, m := range metas {
		e := l[i*AccountEntrySize:]
		copy(e, m.Pubkey[:])
		e[KeySize] = boolByte(m.IsSigner)
		e[KeySize+1] = boolByte(m.IsWritable)
	}
	return l
}

// Len returns the number of entries.
func (l AccountList) Len() int {
	return len(l) / AccountEntrySize
}

// At returns the i-th entry.
func (l AccountList) At(i int) quorum.AccountMeta {
	e := l[i*AccountEntrySize : (i+1)*AccountEntrySize]
	var m quorum.AccountMeta
	copy(m.Pubkey[:], e[:KeySize])
	m.IsSigner = e[KeySize] != 0
	m.IsWritable = e[KeySize+1] != 0
	return m
}

// Metas returns a copy of all entries.
func (l AccountList) Metas() []quorum.AccountMeta {
	metas := make([]quorum.AccountMeta, l.Len())
	for i := range metas {
		metas[i] = l.At(i)
	}
	return metas
}

// SignerEntry is the decoded form of one roster entry.
type SignerEntry struct {
	Key    quorum.Pubkey
	Signed bool
}

// SignerList is a view of the proposal roster. Sign modifies the
// buffer the list was parsed from.
type SignerList []byte

// NewSignerList encodes given roster entries.
func NewSignerList(entries ...SignerEntry) SignerList {
	l := make(SignerList, len(entries)*SignerEntrySize)
	for i, e := range entries {
		copy(l[i*SignerEntrySize:], e.Key[:])
		if e.Signed {
			l[i*SignerEntrySize+KeySize] = Signed
		}
	}
	return l
}

// Len returns the number of roster entries.
func (l SignerList) Len() int {
	return len(l) / SignerEntrySize
}

// Key returns the owner of the i-th entry.
func (l SignerList) Key(i int) quorum.Pubkey {
	var k quorum.Pubkey
	copy(k[:], l[i*SignerEntrySize:i*SignerEntrySize+KeySize])
	return k
}

// Mark returns the raw approval marker of the i-th entry.
func (l SignerList) Mark(i int) uint8 {
	return l[i*SignerEntrySize+KeySize]
}

// Signed returns true if the i-th entry holds an approval.
func (l SignerList) Signed(i int) bool {
	return l.Mark(i) == Signed
}

// Sign records an approval in the i-th entry.
func (l SignerList) Sign(i int) {
	l[i*SignerEntrySize+KeySize] = Signed
}

// Find returns the index of the first entry of given owner, or -1.
func (l SignerList) Find(key quorum.Pubkey) int {
	for i := 0; i < l.Len(); i++ {
		if l.Key(i) == key {
			return i
		}
	}
	return -1
}

// CountSigned returns the number of entries holding an approval.
func (l SignerList) CountSigned() uint64 {
	var n uint64
	for i := 0; i < l.Len(); i++ {
		if l.Signed(i) {
			n++
		}
	}
	return n
}

// Entries returns a copy of all entries.
func (l SignerList) Entries() []SignerEntry {
	entries := make([]SignerEntry, l.Len())
	for i := range entries {
		entries[i] = SignerEntry{Key: l.Key(i), Signed: l.Signed(i)}
	}
	return entries
}

// ProposalSize returns the size of a proposal record with given
// section lengths.
func ProposalSize(accounts, signers, payload uint64) (uint64, error) {
	size := uint64(ProposalHeaderSize)
	for _, section := range [...]struct{ count, width uint64 }{
		{accounts, AccountEntrySize},
		{signers, SignerEntrySize},
		{payload, 1},
	} {
		hi, n := bits.Mul64(section.count, section.width)
		if hi != 0 {
			return 0, errors.Wrapf(errors.ErrOverflow, "section of %d entries", section.count)
		}
		var carry uint64
		size, carry = bits.Add64(size, n, 0)
		if carry != 0 {
			return 0, errors.Wrap(errors.ErrOverflow, "proposal size")
		}
	}
	return size, nil
}

// ParseProposal interprets buf as a proposal record. The returned
// sections reference buf. Bytes past the declared size are ignored.
func ParseProposal(buf []byte) (ProposalHeader, AccountList, SignerList, []byte, error) {
	var h ProposalHeader
	if len(buf) < ProposalHeaderSize {
		return h, nil, nil, nil, errors.Wrapf(errors.ErrMalformed, "proposal header needs %d bytes, got %d", ProposalHeaderSize, len(buf))
	}
	h = readProposalHeader(buf)
	size, err := ProposalSize(h.AccountCount, h.SignerCount, h.PayloadLen)
	if err != nil {
		return ProposalHeader{}, nil, nil, nil, errors.Wrap(errors.ErrMalformed, err.Error())
	}
	if size > uint64(len(buf)) {
		return ProposalHeader{}, nil, nil, nil, errors.Wrapf(errors.ErrMalformed, "proposal needs %d bytes, got %d", size, len(buf))
	}
	// Every offset below is bounded by size, which fits in len(buf).
	off := uint64(ProposalHeaderSize)
	accountsEnd := off + h.AccountCount*AccountEntrySize
	signersEnd := accountsEnd + h.SignerCount*SignerEntrySize
	return h,
		AccountList(buf[off:accountsEnd]),
		SignerList(buf[accountsEnd:signersEnd]),
		buf[signersEnd:size],
		nil
}

// WriteProposal serializes the record into dst, which must be at least
// ProposalSize bytes long.
func WriteProposal(dst []byte, h ProposalHeader, accounts AccountList, signers SignerList, payload []byte) error {
	switch {
	case len(accounts)%AccountEntrySize != 0 || uint64(accounts.Len()) != h.AccountCount:
		return errors.Wrapf(errors.ErrHuman, "%d accounts declared, %d bytes given", h.AccountCount, len(accounts))
	case len(signers)%SignerEntrySize != 0 || uint64(signers.Len()) != h.SignerCount:
		return errors.Wrapf(errors.ErrHuman, "%d signers declared, %d bytes given", h.SignerCount, len(signers))
	case uint64(len(payload)) != h.PayloadLen:
		return errors.Wrapf(errors.ErrHuman, "%d payload bytes declared, %d given", h.PayloadLen, len(payload))
	}
	size, err := ProposalSize(h.AccountCount, h.SignerCount, h.PayloadLen)
	if err != nil {
		return err
	}
	if uint64(len(dst)) < size {
		return errors.Wrapf(errors.ErrMalformed, "proposal needs %d bytes, got %d", size, len(dst))
	}
	h.MarshalTo(dst)
	n := ProposalHeaderSize
	n += copy(dst[n:], accounts)
	n += copy(dst[n:], signers)
	copy(dst[n:], payload)
	return nil
}

// EncodeProposal returns the encoded proposal record.
func EncodeProposal(h ProposalHeader, accounts AccountList, signers SignerList, payload []byte) ([]byte, error) {
	size, err := ProposalSize(h.AccountCount, h.SignerCount, h.PayloadLen)
	if err != nil {
		return nil, err
	}
	if size > math.MaxInt32 {
		return nil, errors.Wrapf(errors.ErrOverflow, "proposal of %d bytes", size)
	}
	buf := make([]byte, size)
	if err := WriteProposal(buf, h, accounts, signers, payload); err != nil {
		return nil, err
	}
	return buf, nil
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
