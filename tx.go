package quorum

import (
	"crypto/sha256"

	"github.com/iov-one/quorum/errors"
	amino "github.com/tendermint/go-amino"
	"golang.org/x/crypto/ed25519"
)

// MaxAccountsPerInstruction limits how many storage references a single
// instruction may carry.
const MaxAccountsPerInstruction = 64

// TxCodec encodes transactions and every other binary envelope that is
// not a fixed record layout.
var TxCodec = amino.NewCodec()

// Instruction is a request for a single program to process data against
// an ordered list of accounts.
type Instruction struct {
	ProgramID Pubkey
	Accounts  []AccountMeta
	Data      []byte
}

// Validate performs cheap structural checks.
func (i Instruction) Validate() error {
	if len(i.Accounts) > MaxAccountsPerInstruction {
		return errors.Wrapf(errors.ErrMalformed, "%d accounts, max %d", len(i.Accounts), MaxAccountsPerInstruction)
	}
	return nil
}

// Signers returns the keys that must sign a transaction carrying this
// instruction, without duplicates.
func (i Instruction) Signers() []Pubkey {
	var keys []Pubkey
	for _, m := range i.Accounts {
		if !m.IsSigner {
			continue
		}
		dup := false
		for _, k := range keys {
			if k == m.Pubkey {
				dup = true
				break
			}
		}
		if !dup {
			keys = append(keys, m.Pubkey)
		}
	}
	return keys
}

// Signature is an ed25519 signature of the transaction sign bytes.
type Signature struct {
	Pubkey Pubkey
	Sig    []byte
}

// Signer can produce signatures for a single identity.
type Signer interface {
	Pubkey() Pubkey
	Sign(message []byte) ([]byte, error)
}

// Tx represent the data sent from the user to the chain: a single
// instruction, along with the signatures of every signer it lists.
type Tx struct {
	Instruction Instruction
	// Nonce allows to submit the same instruction more than once. The
	// runtime rejects a transaction it has already seen.
	Nonce      uint64
	Signatures []Signature
}

type signDoc struct {
	ChainID     string
	Instruction Instruction
	Nonce       uint64
}

// SignBytes returns the bytes that every signer must sign. Binding the
// chain id prevents a transaction from being replayed on another chain.
func (tx *Tx) SignBytes(chainID string) ([]byte, error) {
	doc := signDoc{
		ChainID:     chainID,
		Instruction: tx.Instruction,
		Nonce:       tx.Nonce,
	}
	bz, err := TxCodec.MarshalBinaryBare(doc)
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return bz, nil
}

// Hash identifies a transaction independently of its signatures.
func (tx *Tx) Hash(chainID string) ([]byte, error) {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256(bz)
	return h[:], nil
}

// Sign appends the signature of given signer.
func (tx *Tx) Sign(chainID string, s Signer) error {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return err
	}
	sig, err := s.Sign(bz)
	if err != nil {
		return errors.Wrap(err, "sign")
	}
	tx.Signatures = append(tx.Signatures, Signature{Pubkey: s.Pubkey(), Sig: sig})
	return nil
}

// VerifySignatures checks every signature and returns the verified
// identities. Any invalid signature fails the whole transaction.
func (tx *Tx) VerifySignatures(chainID string) ([]Pubkey, error) {
	bz, err := tx.SignBytes(chainID)
	if err != nil {
		return nil, err
	}
	signers := make([]Pubkey, 0, len(tx.Signatures))
	for _, s := range tx.Signatures {
		if len(s.Sig) != ed25519.SignatureSize {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "signature length of %s", s.Pubkey)
		}
		if !ed25519.Verify(ed25519.PublicKey(s.Pubkey[:]), bz, s.Sig) {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "invalid signature of %s", s.Pubkey)
		}
		signers = append(signers, s.Pubkey)
	}
	return signers, nil
}

// Marshal serializes the transaction.
func (tx *Tx) Marshal() ([]byte, error) {
	return TxCodec.MarshalBinaryBare(tx)
}

// Unmarshal loads the transaction from its binary form.
func (tx *Tx) Unmarshal(bz []byte) error {
	return TxCodec.UnmarshalBinaryBare(bz, tx)
}

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (*Tx, error)

// DecodeTx is the default TxDecoder.
func DecodeTx(txBytes []byte) (*Tx, error) {
	if len(txBytes) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "tx")
	}
	var tx Tx
	if err := tx.Unmarshal(txBytes); err != nil {
		return nil, errors.Wrap(errors.ErrMalformed, err.Error())
	}
	return &tx, nil
}
