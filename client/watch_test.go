package client

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	tmtypes "github.com/tendermint/tendermint/types"
)

func TestWaitForNextBlock(t *testing.T) {
	c := InProcess(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	header, err := c.WaitForNextBlock(ctx)
	assert.Nil(t, err)
	assert.Equal(t, lastHeight+1, header.Height)
}

func TestWaitForHeight(t *testing.T) {
	c := InProcess(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	cases := map[string]struct {
		diff int64
	}{
		"next block":   {diff: 1},
		"old block":    {diff: -2},
		"future block": {diff: 3},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			status, err := c.Status(ctx)
			assert.Nil(t, err)
			desired := status.Height + tc.diff

			header, err := c.WaitForHeight(ctx, desired)
			assert.Nil(t, err)
			if header == nil {
				t.Fatalf("Returned nil header")
			}

			if tc.diff > 0 {
				// if it is the future, make sure we get correct header
				assert.Equal(t, true, desired >= header.Height)
			} else {
				// for the past, that we get the next header
				assert.Equal(t, true, status.Height+1 >= header.Height)
			}
		})
	}
}

func TestCommitTxsAndSearch(t *testing.T) {
	c := InProcess(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	nonce := uint64(time.Now().UnixNano())
	txs := []*quorum.Tx{{Nonce: nonce}, {Nonce: nonce + 1}, {Nonce: nonce + 2}}
	results, err := c.CommitTxs(ctx, txs)
	assert.Nil(t, err)
	assert.Equal(t, len(txs), len(results))

	for i, res := range results {
		raw, err := txs[i].Marshal()
		assert.Nil(t, err)
		want := TransactionID(tmtypes.Tx(raw).Hash())
		assert.Equal(t, want, res.ID)
		assert.Nil(t, res.Err)

		found, err := c.SearchTx(ctx, fmt.Sprintf("tx.height=%d", res.Height))
		assert.Nil(t, err)
		var ids []TransactionID
		for _, f := range found {
			ids = append(ids, f.ID)
		}
		assert.Equal(t, true, containsID(ids, res.ID))
	}
}

func TestWatchTxTimeout(t *testing.T) {
	c := InProcess(node)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := c.WatchTx(ctx, TransactionID(tmtypes.Tx([]byte("never submitted")).Hash()))
	assert.IsErr(t, errors.ErrTimeout, err)

	ctx, cancel = context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_, err = c.WatchTxs(ctx, []TransactionID{TransactionID(tmtypes.Tx([]byte("missing")).Hash())})
	assert.IsErr(t, errors.ErrTimeout, err)
}

func TestDialDefaultAddress(t *testing.T) {
	c := Dial("")
	assert.Equal(t, true, c.conn != nil)
	assert.Equal(t, true, len(c.subscriber) > len("quorumclient-"))
}

func containsID(ids []TransactionID, id TransactionID) bool {
	for _, x := range ids {
		if x.String() == id.String() {
			return true
		}
	}
	return false
}
