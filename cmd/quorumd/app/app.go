/*
Package app links together all the various components
to construct the quorumd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store/iavl"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/system"
)

// MultisigProgramID is the identity under which the multisig program
// is deployed.
var MultisigProgramID = quorum.MustParsePubkey("BNxSTg41HfvQg1xLL6SpLU3cEkyHR9gzYbKGopJpgKc4")

// Router returns a router dispatching to the system and multisig
// programs.
func Router() *app.Router {
	r := app.NewRouter()
	system.RegisterRoutes(r)
	multisig.NewHandler(MultisigProgramID).RegisterRoutes(r)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/accounts", "/" and "/prefix"
func QueryRouter() quorum.QueryRouter {
	r := quorum.NewQueryRouter()
	app.RegisterQuery(r)
	return r
}

// Initializers returns the genesis initialization of all programs.
func Initializers() quorum.Initializer {
	return app.ChainInitializers(
		system.Initializer{},
		&multisig.Initializer{Program: MultisigProgramID},
	)
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, runtime *app.Runtime,
	tx quorum.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, runtime, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (quorum.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MemCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
