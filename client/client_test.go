package client

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestStatus(t *testing.T) {
	c := InProcess(node)
	ctx := context.Background()
	status, err := c.Status(ctx)
	assert.Nil(t, err)
	assert.Equal(t, false, status.CatchingUp)
	if status.Height < 1 {
		t.Fatalf("Unexpected height from status: %d", status.Height)
	}
}

func TestHeader(t *testing.T) {
	c := InProcess(node)
	ctx := context.Background()
	status, err := c.Status(ctx)
	assert.Nil(t, err)
	maxHeight := status.Height

	header, err := c.Header(ctx, maxHeight)
	assert.Nil(t, err)
	assert.Equal(t, maxHeight, header.Height)

	_, err = c.Header(ctx, maxHeight+20)
	if err == nil {
		t.Fatalf("Expected error for non-existent height")
	}
}

func TestSubscribeHeaders(t *testing.T) {
	c := InProcess(node)
	back := context.Background()
	ctx, cancel := context.WithCancel(back)

	status, err := c.Status(ctx)
	assert.Nil(t, err)
	lastHeight := status.Height

	headers := make(chan Header, 5)
	err = c.SubscribeHeaders(ctx, headers)
	assert.Nil(t, err)

	// read three headers and ensure they are in order
	for i := 0; i < 3; i++ {
		h, ok := <-headers
		assert.Equal(t, true, ok)
		assert.Equal(t, lastHeight+1, h.Height)
		lastHeight++
	}

	// cancel the context and ensure the channel is closed
	cancel()
	_, ok := <-headers
	assert.Equal(t, false, ok)
}

func TestChainID(t *testing.T) {
	c := InProcess(node)
	chainID, err := c.ChainID(context.Background())
	assert.Nil(t, err)
	assert.Equal(t, getChainID(), chainID)
}

func TestCommitTx(t *testing.T) {
	c := InProcess(node)
	ctx, cancel := timeoutCtx()
	defer cancel()

	tx := &quorum.Tx{Nonce: uint64(time.Now().UnixNano())}
	res, err := c.CommitTx(ctx, tx)
	assert.Nil(t, err)
	assert.Nil(t, res.Err)
	if res.Height < 1 {
		t.Fatalf("Unexpected height of committed tx: %d", res.Height)
	}

	found, err := c.GetTxByID(ctx, res.ID)
	assert.Nil(t, err)
	assert.Equal(t, res.Height, found.Height)
}

func TestQueryTxByAccount(t *testing.T) {
	q := QueryTxByAccount(quorum.Pubkey{0xab})
	want := "616363743AAB" + strings.Repeat("00", 31) + "='s'"
	assert.Equal(t, want, q)
}
