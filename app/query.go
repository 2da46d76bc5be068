package app

import (
	"bytes"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Query paths served by the application.
const (
	// AccountsPath returns the stored form of an account. The query
	// data is the 32 byte account key.
	AccountsPath = "/accounts"
	// RawPath returns the value stored under the exact key given as
	// query data.
	RawPath = "/"
	// PrefixPath returns all pairs whose key starts with the query
	// data.
	PrefixPath = "/prefix"
)

// RegisterQuery registers the state queries with the router.
func RegisterQuery(qr quorum.QueryRouter) {
	qr.Register(AccountsPath, quorum.QueryHandlerFunc(queryAccount))
	qr.Register(RawPath, quorum.QueryHandlerFunc(queryRaw))
	qr.Register(PrefixPath, quorum.QueryHandlerFunc(queryPrefix))
}

func queryAccount(db quorum.ReadOnlyKVStore, data []byte) ([]quorum.Model, error) {
	key, err := quorum.NewPubkey(data)
	if err != nil {
		return nil, err
	}
	value, err := db.Get(quorum.AccountKey(key))
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []quorum.Model{quorum.Pair(key.Bytes(), value)}, nil
}

func queryRaw(db quorum.ReadOnlyKVStore, data []byte) ([]quorum.Model, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "key")
	}
	value, err := db.Get(data)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, nil
	}
	return []quorum.Model{quorum.Pair(data, value)}, nil
}

func queryPrefix(db quorum.ReadOnlyKVStore, prefix []byte) ([]quorum.Model, error) {
	var end []byte
	if len(prefix) > 0 {
		end = prefixEnd(prefix)
	}
	itr, err := db.Iterator(prefix, end)
	if err != nil {
		return nil, err
	}
	defer itr.Release()

	var res []quorum.Model
	for {
		k, v, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		if !bytes.HasPrefix(k, prefix) {
			return res, nil
		}
		res = append(res, quorum.Pair(k, v))
	}
}

// prefixEnd returns the first key after all keys with given prefix, or
// nil if there is none.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
