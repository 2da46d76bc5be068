package quorumtest

import (
	"testing"

	"github.com/iov-one/quorum"
)

// SignedTx returns a transaction carrying the instruction, signed by all
// given keys for the chain.
func SignedTx(t testing.TB, chainID string, ix quorum.Instruction, nonce uint64, signers ...quorum.Signer) *quorum.Tx {
	t.Helper()
	tx := &quorum.Tx{Instruction: ix, Nonce: nonce}
	for _, s := range signers {
		if err := tx.Sign(chainID, s); err != nil {
			t.Fatalf("cannot sign transaction: %s", err)
		}
	}
	return tx
}

// EncodedTx is like SignedTx but returns the serialized transaction.
func EncodedTx(t testing.TB, chainID string, ix quorum.Instruction, nonce uint64, signers ...quorum.Signer) []byte {
	t.Helper()
	raw, err := SignedTx(t, chainID, ix, nonce, signers...).Marshal()
	if err != nil {
		t.Fatalf("cannot marshal transaction: %s", err)
	}
	return raw
}
