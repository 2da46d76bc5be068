package quorum

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/quorum/errors"
)

// PubkeyLength is the size of every identity key and derived address.
const PubkeyLength = 32

// Pubkey identifies an account. It is either an ed25519 public key or an
// address derived by a program (see the address package), which is
// guaranteed not to be a valid curve point.
type Pubkey [PubkeyLength]byte

// NewPubkey copies given bytes into a Pubkey. The length must match.
func NewPubkey(raw []byte) (Pubkey, error) {
	var k Pubkey
	if len(raw) != PubkeyLength {
		return k, errors.Wrapf(errors.ErrInput, "pubkey length %d", len(raw))
	}
	copy(k[:], raw)
	return k, nil
}

// ParsePubkey decodes the base58 representation of a key.
func ParsePubkey(s string) (Pubkey, error) {
	if s == "" {
		return Pubkey{}, errors.Wrap(errors.ErrEmpty, "pubkey")
	}
	raw := base58.Decode(s)
	if len(raw) == 0 {
		return Pubkey{}, errors.Wrapf(errors.ErrInput, "invalid base58 %q", s)
	}
	return NewPubkey(raw)
}

// ParseBech32Pubkey decodes the bech32 representation of a key, as
// produced by Bech32. The human readable part must match.
func ParseBech32Pubkey(hrp, s string) (Pubkey, error) {
	got, words, err := bech32.Decode(s)
	if err != nil {
		return Pubkey{}, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	if got != hrp {
		return Pubkey{}, errors.Wrapf(errors.ErrInput, "prefix %q, want %q", got, hrp)
	}
	raw, err := bech32.ConvertBits(words, 5, 8, false)
	if err != nil {
		return Pubkey{}, errors.Wrapf(errors.ErrInput, "bech32 payload: %s", err)
	}
	return NewPubkey(raw)
}

// MustParsePubkey is like ParsePubkey but panics on error. Use only with
// constant input.
func MustParsePubkey(s string) Pubkey {
	k, err := ParsePubkey(s)
	if err != nil {
		panic(err)
	}
	return k
}

// Bytes returns the key as a byte slice backed by a copy.
func (k Pubkey) Bytes() []byte {
	b := make([]byte, PubkeyLength)
	copy(b, k[:])
	return b
}

// Equals checks if two keys are the same
func (k Pubkey) Equals(o Pubkey) bool {
	return bytes.Equal(k[:], o[:])
}

// IsZero returns true if this is the all zero key.
func (k Pubkey) IsZero() bool {
	return k == Pubkey{}
}

// String returns the base58 form.
func (k Pubkey) String() string {
	return base58.Encode(k[:])
}

// Bech32 returns the bech32 form using given human readable part.
func (k Pubkey) Bech32(hrp string) (string, error) {
	words, err := bech32.ConvertBits(k[:], 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "convert bits")
	}
	s, err := bech32.Encode(hrp, words)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return s, nil
}

// MarshalJSON encodes the key as a base58 string.
func (k Pubkey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a base58 string.
func (k *Pubkey) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	key, err := ParsePubkey(enc)
	if err != nil {
		return err
	}
	*k = key
	return nil
}
