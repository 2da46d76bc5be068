package quorum_test

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestTxSignAndVerify(t *testing.T) {
	alice := crypto.GenPrivKeyEd25519()
	bob := crypto.GenPrivKeyEd25519()

	program := quorum.Pubkey{1, 2, 3}
	tx := quorum.Tx{
		Instruction: quorum.Instruction{
			ProgramID: program,
			Accounts: []quorum.AccountMeta{
				quorum.NewAccountMeta(alice.Pubkey(), true),
				quorum.NewReadonlyAccountMeta(bob.Pubkey(), true),
			},
			Data: []byte{0, 1, 2},
		},
		Nonce: 5,
	}
	assert.Nil(t, tx.Sign("test-chain", alice))
	assert.Nil(t, tx.Sign("test-chain", bob))

	signers, err := tx.VerifySignatures("test-chain")
	assert.Nil(t, err)
	assert.Equal(t, []quorum.Pubkey{alice.Pubkey(), bob.Pubkey()}, signers)

	_, err = tx.VerifySignatures("other-chain")
	assert.IsErr(t, errors.ErrUnauthorized, err)

	raw, err := tx.Marshal()
	assert.Nil(t, err)
	decoded, err := quorum.DecodeTx(raw)
	assert.Nil(t, err)
	signers, err = decoded.VerifySignatures("test-chain")
	assert.Nil(t, err)
	assert.Equal(t, 2, len(signers))

	decoded.Nonce++
	_, err = decoded.VerifySignatures("test-chain")
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestTxHash(t *testing.T) {
	tx := quorum.Tx{Instruction: quorum.Instruction{Data: []byte("a")}}
	h1, err := tx.Hash("test-chain")
	assert.Nil(t, err)

	// Signatures are not part of the hash.
	tx.Signatures = append(tx.Signatures, quorum.Signature{Sig: []byte("x")})
	h2, err := tx.Hash("test-chain")
	assert.Nil(t, err)
	assert.Bytes(t, h1, h2)

	tx.Nonce = 1
	h3, err := tx.Hash("test-chain")
	assert.Nil(t, err)
	if string(h1) == string(h3) {
		t.Fatal("nonce must change the hash")
	}
}

func TestDecodeTxErrors(t *testing.T) {
	_, err := quorum.DecodeTx(nil)
	assert.IsErr(t, errors.ErrEmpty, err)

	_, err = quorum.DecodeTx([]byte{0xff, 0xff, 0xff})
	assert.IsErr(t, errors.ErrMalformed, err)
}

func TestInstructionSigners(t *testing.T) {
	a, b := quorum.Pubkey{1}, quorum.Pubkey{2}
	ins := quorum.Instruction{
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(a, true),
			quorum.NewAccountMeta(b, false),
			quorum.NewReadonlyAccountMeta(a, true),
		},
	}
	assert.Equal(t, []quorum.Pubkey{a}, ins.Signers())
	assert.Nil(t, ins.Validate())

	ins.Accounts = make([]quorum.AccountMeta, quorum.MaxAccountsPerInstruction+1)
	assert.IsErr(t, errors.ErrMalformed, ins.Validate())
}
