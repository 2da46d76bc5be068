package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/client"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestReadTxs(t *testing.T) {
	var input bytes.Buffer
	for nonce := uint64(1); nonce <= 3; nonce++ {
		_, err := writeTx(&input, &quorum.Tx{Nonce: nonce})
		assert.Nil(t, err)
	}
	raw := input.Bytes()

	txs, err := readTxs(bytes.NewReader(raw))
	assert.Nil(t, err)
	assert.Equal(t, 3, len(txs))
	for i, tx := range txs {
		assert.Equal(t, uint64(i+1), tx.Nonce)
	}

	if _, err := readTxs(bytes.NewReader(raw[:len(raw)-2])); err == nil {
		t.Fatal("a truncated last transaction must fail")
	}
	if _, err := readTxs(bytes.NewReader(nil)); err == nil {
		t.Fatal("empty input must fail")
	}
}

func TestWriteCommitResults(t *testing.T) {
	results := []*client.CommitResult{
		{ID: client.TransactionID{0xaa}, Height: 4, Result: &quorum.DeliverResult{Log: "moved", Data: []byte{1, 2}}},
		{ID: client.TransactionID{0xbb}, Height: 4, Err: errors.Wrap(errors.ErrUnauthorized, "not an owner")},
	}

	var out bytes.Buffer
	err := writeCommitResults(&out, results)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Transaction AA committed at height 4\nmoved\n0102\n" +
		"Transaction BB failed at height 4: not an owner: unauthorized\n"
	assert.Equal(t, want, out.String())

	out.Reset()
	assert.Nil(t, writeCommitResults(&out, results[:1]))
}

func TestWriteSearchResults(t *testing.T) {
	found := []*client.CommitResult{
		{ID: client.TransactionID{0x01, 0x02}, Height: 7, Result: &quorum.DeliverResult{Data: []byte{0xff}}},
		{ID: client.TransactionID{0x03}, Height: 9, Err: errors.ErrInsufficientAmount},
	}
	var out bytes.Buffer
	assert.Nil(t, writeSearchResults(&out, found))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, 2, len(lines))
	var first, second txSearchView
	assert.Nil(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Nil(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, txSearchView{ID: "0102", Height: 7, Data: "ff"}, first)
	assert.Equal(t, txSearchView{ID: "03", Height: 9, Error: "insufficient amount"}, second)
}
