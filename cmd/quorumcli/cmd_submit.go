package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/client"
)

func cmdSubmitTransaction(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transactions from standard input and submit them in
order. The command waits until all transactions are included in a block.

Make sure to collect all required signatures before submitting a
transaction. Several signed transactions can be submitted at once:

  $ cat transfer.tx approve.tx | quorumcli submit
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmFlagUsage)
		timeoutFl = fl.Duration("timeout", 30*time.Second, "How long to wait for the transactions to be included in a block.")
	)
	fl.Parse(args)

	txs, err := readTxs(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	defer cancel()

	results, err := client.Dial(*tmAddrFl).CommitTxs(ctx, txs)
	if err != nil {
		return fmt.Errorf("cannot submit transaction: %s", err)
	}
	return writeCommitResults(output, results)
}

// readTxs reads all framed transactions until the end of input. At least
// one transaction is required.
func readTxs(r io.Reader) ([]*quorum.Tx, error) {
	var txs []*quorum.Tx
	for {
		tx, n, err := readTx(r)
		switch {
		case err == nil:
			txs = append(txs, tx)
		case err == io.EOF && n == 0:
			if len(txs) == 0 {
				return nil, fmt.Errorf("no transaction")
			}
			return txs, nil
		default:
			return nil, fmt.Errorf("transaction #%d: %s", len(txs), err)
		}
	}
}

// writeCommitResults prints the outcome of every transaction. All results
// are written even if some of the transactions failed.
func writeCommitResults(output io.Writer, results []*client.CommitResult) error {
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(output, "Transaction %X failed at height %d: %s\n", res.ID, res.Height, res.Err)
			continue
		}
		fmt.Fprintf(output, "Transaction %X committed at height %d\n", res.ID, res.Height)
		if res.Result == nil {
			continue
		}
		if res.Result.Log != "" {
			fmt.Fprintln(output, res.Result.Log)
		}
		if len(res.Result.Data) != 0 {
			fmt.Fprintln(output, hex.EncodeToString(res.Result.Data))
		}
	}
	if failed != 0 {
		return fmt.Errorf("%d of %d transactions failed", failed, len(results))
	}
	return nil
}
