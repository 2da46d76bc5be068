package quorumtest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db quorum.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "quorumtest")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	db = iavl.NewCommitStore(dbpath, "db")
	return db, func() { os.RemoveAll(dbpath) }
}

// Fund stores an account owned by owner holding given lamports.
func Fund(t testing.TB, db quorum.KVStore, key, owner quorum.Pubkey, lamports uint64) {
	t.Helper()
	acct := &quorum.Account{Key: key, Owner: owner, Lamports: lamports}
	if err := quorum.SaveAccount(db, acct); err != nil {
		t.Fatalf("cannot save account: %s", err)
	}
}

// Account loads an account, failing the test on error.
func Account(t testing.TB, db quorum.ReadOnlyKVStore, key quorum.Pubkey) *quorum.Account {
	t.Helper()
	acct, err := quorum.LoadAccount(db, key)
	if err != nil {
		t.Fatalf("cannot load account: %s", err)
	}
	return acct
}
