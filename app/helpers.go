package app

import (
	"bytes"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is the query part of abci.Application. It is implemented by
// the application itself and by the rpc client.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface as a ReadonlyKVStore
type ABCIStore struct {
	app Querier
}

var _ quorum.ReadOnlyKVStore = (*ABCIStore)(nil)

// NewABCIStore returns a store reading committed state through the
// query paths registered by RegisterQuery.
func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	models, err := a.query(RawPath, key)
	if err != nil {
		return nil, err
	}
	switch len(models) {
	case 0:
		return nil, nil
	case 1:
		return models[0].Value, nil
	default:
		return nil, errors.Wrapf(errors.ErrMalformed, "%d values for a single key", len(models))
	}
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return v != nil, err
}

// Iterator attempts to do a range iteration over the store.
// Only prefix ranges can be served by the abci server.
func (a *ABCIStore) Iterator(start, end []byte) (quorum.Iterator, error) {
	models, err := a.prefixModels(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is like Iterator, in descending order.
func (a *ABCIStore) ReverseIterator(start, end []byte) (quorum.Iterator, error) {
	models, err := a.prefixModels(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) prefixModels(start, end []byte) ([]quorum.Model, error) {
	if start == nil && end != nil {
		return nil, errors.Wrap(errors.ErrInput, "only prefix ranges are supported")
	}
	if start != nil && !bytes.Equal(end, prefixEnd(start)) {
		return nil, errors.Wrap(errors.ErrInput, "only prefix ranges are supported")
	}
	return a.query(PrefixPath, start)
}

func (a *ABCIStore) query(path string, data []byte) ([]quorum.Model, error) {
	res := a.app.Query(abci.RequestQuery{
		Path: path,
		Data: data,
	})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return ParseQueryResponse(res.Key, res.Value)
}
