package app

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp adds DeliverTx and CheckTx handlers to the storage and
// query functionality of StoreApp
type BaseApp struct {
	*StoreApp
	decoder quorum.TxDecoder
	runtime *Runtime
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder quorum.TxDecoder,
	runtime *Runtime,
	debug bool,
) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		runtime:  runtime,
		debug:    debug,
	}
}

// DeliverTx - ABCI - runs the instruction against the deliver store
func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return quorum.DeliverTxError(err, b.debug)
	}

	ctx := quorum.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"program", tx.Instruction.ProgramID.String())

	res, err := b.runtime.Execute(ctx, b.DeliverStore(), tx)
	return quorum.DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - runs the instruction against the check store,
// so the mempool rejects transactions that cannot succeed
func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return quorum.CheckTxError(err, b.debug)
	}

	ctx := quorum.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"program", tx.Instruction.ProgramID.String())

	res, err := b.runtime.Execute(ctx, b.CheckStore(), tx)
	if err != nil {
		return quorum.CheckTxError(err, b.debug)
	}
	return quorum.CheckResult{Data: res.Data, Log: res.Log}.ToABCI()
}

// loadTx calls the decoder, and capture any panics
func (b BaseApp) loadTx(txBytes []byte) (tx *quorum.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
