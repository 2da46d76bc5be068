package app

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/store"
	"github.com/tendermint/tendermint/libs/common"
)

var (
	recordSet    = []byte("s")
	recordDelete = []byte("d")
)

// kvPairs returns the keys changed through a recording store as tags,
// so that transactions can be searched by the accounts they modified.
func kvPairs(db quorum.KVStore) common.KVPairs {
	r, ok := db.(store.Recorder)
	if !ok {
		return nil
	}
	return changesToTags(r.KVPairs())
}

func changesToTags(changes map[string][]byte) common.KVPairs {
	l := len(changes)
	if l == 0 {
		return nil
	}
	res := make(common.KVPairs, 0, l)
	for k, v := range changes {
		tag := recordSet
		if v == nil {
			tag = recordDelete
		}
		pair := common.KVPair{
			Key:   []byte(strings.ToUpper(hex.EncodeToString([]byte(k)))),
			Value: tag,
		}
		res = append(res, pair)
	}
	res.Sort()
	return res
}
