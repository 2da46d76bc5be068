package quorum_test

import (
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
)

func TestAccountPersistence(t *testing.T) {
	db := store.MemStore()
	key := quorum.Pubkey{9, 9, 9}

	empty, err := quorum.LoadAccount(db, key)
	assert.Nil(t, err)
	assert.Equal(t, true, empty.IsEmpty())
	assert.Equal(t, key, empty.Key)

	acct := &quorum.Account{
		Key:        key,
		IsSigner:   true,
		IsWritable: true,
		Owner:      quorum.Pubkey{1},
		Lamports:   1000,
		Data:       []byte{1, 2, 3},
	}
	assert.Nil(t, quorum.SaveAccount(db, acct))

	got, err := quorum.LoadAccount(db, key)
	assert.Nil(t, err)
	assert.Equal(t, acct.Owner, got.Owner)
	assert.Equal(t, acct.Lamports, got.Lamports)
	assert.Bytes(t, acct.Data, got.Data)
	// flags are not persisted
	assert.Equal(t, false, got.IsSigner)

	// saving an emptied account removes it
	got.Owner, got.Lamports, got.Data = quorum.Pubkey{}, 0, nil
	assert.Nil(t, quorum.SaveAccount(db, got))
	has, err := db.Has(quorum.AccountKey(key))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestLoadAccountMalformed(t *testing.T) {
	db := store.MemStore()
	key := quorum.Pubkey{1}
	assert.Nil(t, db.Set(quorum.AccountKey(key), []byte{0xff, 0xff}))
	_, err := quorum.LoadAccount(db, key)
	assert.IsErr(t, errors.ErrMalformed, err)
}
