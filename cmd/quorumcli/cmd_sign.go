package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/quorum/client"
)

func defaultTmAddr() string {
	return env("QUORUMCLI_TM_ADDR", client.DefaultRPCAddr)
}

const tmFlagUsage = "Tendermint node address. You can use QUORUMCLI_TM_ADDR environment variable to set it."

func cmdSignTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input, sign it and write it
to standard output.

Signatures are bound to the chain ID. When not provided, the chain ID is
fetched from the node.
`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = fl.String("key", defaultKeyPath(), keyFlagUsage)
		chainFl   = fl.String("chain", env("QUORUMCLI_CHAIN_ID", ""), "Chain ID the transaction is signed for. You can use QUORUMCLI_CHAIN_ID environment variable to set it.")
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmFlagUsage)
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	chainID := *chainFl
	if chainID == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		chainID, err = client.Dial(*tmAddrFl).ChainID(ctx)
		if err != nil {
			return fmt.Errorf("cannot fetch chain ID: %s", err)
		}
	}

	if err := tx.Sign(chainID, key); err != nil {
		return fmt.Errorf("cannot sign transaction: %s", err)
	}
	_, err = writeTx(output, tx)
	return err
}
