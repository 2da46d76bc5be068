package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/tmtest"
)

// TestSubmitAndShow runs quorumd and tendermint binaries. It is skipped
// when they are not installed.
func TestSubmitAndShow(t *testing.T) {
	alice, bob := quorumtest.NewKey(), quorumtest.NewKey()
	state, err := quorumd.GenInitOptions([]string{alice.Pubkey().String()})
	assert.Nil(t, err)

	node, cleanup := tmtest.SetupConfig(t, "quorumcli-chain", state)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	defer tmtest.RunApp(ctx, t, "quorumd", node.Home, "-bind", node.ProxyAddr)()
	defer tmtest.RunTendermint(ctx, t, node.Home)()

	// Two transfers are submitted in a single call.
	var signed, submitted bytes.Buffer
	for _, amount := range []string{"5000", "7000"} {
		var unsigned bytes.Buffer
		assert.Nil(t, cmdTransfer(nil, &unsigned, []string{
			"-from", alice.Pubkey().String(),
			"-to", bob.Pubkey().String(),
			"-amount", amount,
		}))
		assert.Nil(t, cmdSignTransaction(&unsigned, &signed, []string{
			"-key", writeKey(t, alice),
			"-tm", node.RPCAddr,
		}))
	}
	assert.Nil(t, cmdSubmitTransaction(&signed, &submitted, []string{"-tm", node.RPCAddr}))
	assert.Equal(t, 2, strings.Count(submitted.String(), "committed at height"))

	var shown bytes.Buffer
	assert.Nil(t, cmdShow(nil, &shown, []string{"-tm", node.RPCAddr, "-address", bob.Pubkey().String()}))
	var view accountView
	assert.Nil(t, json.Unmarshal(shown.Bytes(), &view))
	assert.Equal(t, uint64(12000), view.Lamports)
	assert.Equal(t, bob.Pubkey(), view.Address)

	var found bytes.Buffer
	assert.Nil(t, cmdSearch(nil, &found, []string{"-tm", node.RPCAddr, "-address", bob.Pubkey().String()}))
	assert.Equal(t, 2, strings.Count(found.String(), "\n"))
}
