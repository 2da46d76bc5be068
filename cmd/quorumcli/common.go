package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/quorum"
)

// writeTx serialize the transaction. First bytes written contain the
// information how much space the transaction takes, so that a stream of
// transactions can be read back.
func writeTx(w io.Writer, tx *quorum.Tx) (int, error) {
	b, err := tx.Marshal()
	if err != nil {
		return 0, err
	}

	var size [txHeaderSize]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(b)))

	if n, err := w.Write(size[:]); err != nil {
		return n, err
	}
	if n, err := w.Write(b); err != nil {
		return n + txHeaderSize, err
	}
	return txHeaderSize + len(b), nil
}

func readTx(r io.Reader) (*quorum.Tx, int, error) {
	var size [txHeaderSize]byte
	if n, err := io.ReadFull(r, size[:]); err != nil {
		return nil, n, err
	}
	msgSize := binary.BigEndian.Uint32(size[:])
	if msgSize > maxTxSize {
		return nil, txHeaderSize, fmt.Errorf("transaction of %d bytes is too big", msgSize)
	}
	raw := make([]byte, msgSize)
	if n, err := io.ReadFull(r, raw); err != nil {
		return nil, n + txHeaderSize, err
	}

	tx, err := quorum.DecodeTx(raw)
	if err != nil {
		return nil, int(msgSize + txHeaderSize), err
	}
	return tx, int(msgSize + txHeaderSize), nil
}

const (
	txHeaderSize = 4
	maxTxSize    = 1 << 20
)

// writeInstruction wraps the instruction into an unsigned transaction.
func writeInstruction(w io.Writer, ix quorum.Instruction) error {
	_, err := writeTx(w, &quorum.Tx{Instruction: ix})
	return err
}

// flagDie terminates the program when an invalid flag value was
// provided.
func flagDie(description string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, description, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(2)
}
