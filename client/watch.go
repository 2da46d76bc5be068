package client

import (
	"context"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// indexDelay is how long the node needs after a block event before the
// transactions of that block can be searched.
const indexDelay = 100 * time.Millisecond

// WatchTx blocks until the transaction with given id is included in a
// block. A transaction that was committed before the call is returned
// right away. Use the context to bound the wait.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Subscribe before searching so that a block committed in between is
	// not missed.
	events := make(chan CommitResult, 1)
	if err := c.SubscribeTx(subctx, QueryTxByID(id), events); err != nil {
		return nil, err
	}
	if found, err := c.GetTxByID(ctx, id); err == nil && found != nil {
		return found, nil
	}
	select {
	case res, ok := <-events:
		if !ok {
			return nil, errors.Wrapf(errors.ErrTimeout, "unsubscribed before %X was committed", id)
		}
		return &res, nil
	case <-ctx.Done():
		return nil, errors.Wrapf(errors.ErrTimeout, "tx %X: %s", id, ctx.Err())
	}
}

// CommitTx submits a transaction and waits until it is included in a
// block.
func (c *Client) CommitTx(ctx context.Context, tx *quorum.Tx) (*CommitResult, error) {
	res, err := c.CommitTxs(ctx, []*quorum.Tx{tx})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

// CommitTxs submits all transactions in order and waits until each of them
// is included in a block. A transaction rejected by the mempool aborts the
// submission of the ones following it. Results are returned in the order
// of txs.
func (c *Client) CommitTxs(ctx context.Context, txs []*quorum.Tx) ([]*CommitResult, error) {
	ids := make([]TransactionID, len(txs))
	for i, tx := range txs {
		id, err := c.SubmitTx(ctx, tx)
		if err != nil {
			return nil, errors.Wrapf(err, "tx #%d", i)
		}
		ids[i] = id
	}
	res, err := c.WatchTxs(ctx, ids)
	if err != nil {
		return nil, err
	}
	time.Sleep(indexDelay)
	return res, nil
}

// WatchTxs waits for all given transactions in parallel. The error of the
// first transaction, in order of ids, that could not be watched is
// returned.
func (c *Client) WatchTxs(ctx context.Context, ids []TransactionID) ([]*CommitResult, error) {
	type watched struct {
		idx int
		res *CommitResult
		err error
	}
	done := make(chan watched, len(ids))
	for i, id := range ids {
		go func(idx int, id TransactionID) {
			res, err := c.WatchTx(ctx, id)
			done <- watched{idx: idx, res: res, err: err}
		}(i, id)
	}

	results := make([]*CommitResult, len(ids))
	errs := make([]error, len(ids))
	for range ids {
		w := <-done
		results[w.idx], errs[w.idx] = w.res, w.err
	}
	for i, err := range errs {
		if err != nil {
			return nil, errors.Wrapf(err, "tx #%d", i)
		}
	}
	return results, nil
}

// WaitForNextBlock returns the header of the next block produced.
func (c *Client) WaitForNextBlock(ctx context.Context) (*Header, error) {
	return c.waitForHeader(ctx, func(*Header) bool { return true })
}

// WaitForHeight returns the first header produced at or above height. When
// height is already reached it still waits for the next block.
func (c *Client) WaitForHeight(ctx context.Context, height int64) (*Header, error) {
	return c.waitForHeader(ctx, func(h *Header) bool { return h.Height >= height })
}

func (c *Client) waitForHeader(ctx context.Context, match func(*Header) bool) (*Header, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	headers := make(chan Header, 2)
	if err := c.SubscribeHeaders(subctx, headers); err != nil {
		return nil, err
	}
	for h := range headers {
		if match(&h) {
			time.Sleep(indexDelay)
			return &h, nil
		}
	}
	return nil, errors.Wrap(errors.ErrNetwork, "header subscription closed")
}
