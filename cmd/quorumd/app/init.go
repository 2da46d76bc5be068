package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/commands/server"
	"github.com/iov-one/quorum/x/system"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultBalance funds the account created by GenInitOptions.
const DefaultBalance = 1000000000000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// An address in base58 form can be passed as the first argument,
// otherwise a new key is generated and its seed printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr quorum.Pubkey
	if len(args) > 0 {
		var err error
		addr, err = quorum.ParsePubkey(args[0])
		if err != nil {
			return nil, err
		}
	} else {
		key, seed := server.GenerateKey()
		addr = key.Pubkey()
		fmt.Printf("Generated key %s, seed %s\n", addr, seed)
	}

	state := map[string]interface{}{
		"system": map[string]interface{}{
			"accounts": []system.GenesisAccount{
				{Address: addr, Lamports: DefaultBalance},
			},
		},
		"conf": map[string]interface{}{
			"system": rentConfig(addr),
		},
		"multisig": []interface{}{},
	}
	return json.MarshalIndent(state, "", "  ")
}

func rentConfig(owner quorum.Pubkey) system.Rent {
	r := system.DefaultRent()
	r.Owner = owner
	return r
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "quorum.db")
	}

	application, err := Application("quorumd", app.NewRuntime(Router()), quorum.DecodeTx, dbPath, debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(logger)
	return application, nil
}

// InlineApp will take a previously prepared CommitStore and return a complete Application
func InlineApp(kv quorum.CommitKVStore, logger log.Logger, debug bool) abci.Application {
	queryRouter := QueryRouter()
	ctx := context.Background()
	store := app.NewStoreApp("quorumd", kv, queryRouter, ctx)
	base := app.NewBaseApp(store, quorum.DecodeTx, app.NewRuntime(Router()), debug)
	base.WithInit(Initializers())
	base.WithLogger(logger)
	return base
}
