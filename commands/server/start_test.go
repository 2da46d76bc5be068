package server

import (
	"fmt"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/stretchr/testify/require"
	abcicli "github.com/tendermint/tendermint/abci/client"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

func TestParseFlags(t *testing.T) {
	addr, debug, err := parseFlags(nil)
	require.NoError(t, err)
	require.Equal(t, "tcp://localhost:26658", addr)
	require.False(t, debug)

	addr, debug, err = parseFlags([]string{"-bind", "unix:///tmp/app.sock", "-debug"})
	require.NoError(t, err)
	require.Equal(t, "unix:///tmp/app.sock", addr)
	require.True(t, debug)

	_, _, err = parseFlags([]string{"-unknown"})
	assert.IsErr(t, errors.ErrInput, err)
}

func TestParseGetBlockArgs(t *testing.T) {
	_, _, err := parseGetBlockArgs(nil)
	assert.IsErr(t, errors.ErrInput, err)

	path, height, err := parseGetBlockArgs([]string{"data/blockstore.db", "-height", "7"})
	require.NoError(t, err)
	require.Equal(t, "data/blockstore.db", path)
	require.Equal(t, int64(7), height)

	_, err = openDb("data/blockstore")
	assert.IsErr(t, errors.ErrInput, err)
}

func TestParseRetryArgs(t *testing.T) {
	_, err := parseRetryArgs([]string{"abci.db"})
	assert.IsErr(t, errors.ErrInput, err)

	args, err := parseRetryArgs([]string{"abci.db", "block.json", "-error", "-max", "3"})
	require.NoError(t, err)
	require.Equal(t, "abci.db", args.dbPath)
	require.Equal(t, "block.json", args.blockPath)
	require.True(t, args.untilError)
	require.Equal(t, 3, args.maxTries)
}

func TestServeAcceptsConnections(t *testing.T) {
	port, err := cmn.GetFreePort()
	require.NoError(t, err)
	addr := fmt.Sprintf("tcp://127.0.0.1:%d", port)

	var gotHome string
	gen := func(home string, _ log.Logger, debug bool) (abci.Application, error) {
		gotHome = home
		require.True(t, debug)
		return abci.NewBaseApplication(), nil
	}
	svr, err := serve(gen, log.NewNopLogger(), "/tmp/quorum-serve", addr, true)
	require.NoError(t, err)
	defer svr.Stop()
	require.Equal(t, "/tmp/quorum-serve", gotHome)

	cli := abcicli.NewSocketClient(addr, true)
	require.NoError(t, cli.Start())
	defer cli.Stop()

	res, err := cli.EchoSync("ping")
	require.NoError(t, err)
	require.Equal(t, "ping", res.Message)
}

func TestServeGeneratorFailure(t *testing.T) {
	gen := func(string, log.Logger, bool) (abci.Application, error) {
		return nil, errors.Wrap(errors.ErrState, "no database")
	}
	_, err := serve(gen, log.NewNopLogger(), "", "tcp://127.0.0.1:0", false)
	assert.IsErr(t, errors.ErrState, err)
}
