/*

Package tmtest provides helpers for testing using tendermint server.

*/
package tmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/iov-one/quorum/quorumtest/assert"
	cfg "github.com/tendermint/tendermint/config"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	"github.com/tendermint/tendermint/types"
)

// TestReporter is the minimal subset of testing.TB needed to run these test helpers
type TestReporter interface {
	assert.Tester
	Skipf(string, ...interface{})
	Logf(string, ...interface{})
}

// RunTendermint starts a tendermit process. Returned cleanup function will
// ensure the process has stopped and will block until.
//
// Set FORCE_TM_TEST=1 environment variable to fail the test if the binary is
// not available. This might be desired when running tests by CI.
//
// Set TM_DEBUG=1 environmental variable to output all tm logs
func RunTendermint(ctx context.Context, t TestReporter, home string) (cleanup func()) {
	t.Helper()
	return run(ctx, t, "tendermint", "node", "--home", home)
}

// RunApp is like RunTendermint, just executes the application executable,
// assuming a prepared home directory. Additional arguments are passed to the
// start command.
func RunApp(ctx context.Context, t TestReporter, appName string, home string, args ...string) (cleanup func()) {
	t.Helper()
	return run(ctx, t, appName, append([]string{"-home", home, "start"}, args...)...)
}

func run(ctx context.Context, t TestReporter, name string, args ...string) (cleanup func()) {
	t.Helper()

	path, err := exec.LookPath(name)
	if err != nil {
		if os.Getenv("FORCE_TM_TEST") != "1" {
			t.Skipf("%s binary not found. Set FORCE_TM_TEST=1 to fail this test.", name)
		} else {
			t.Fatalf("%s binary not found. Do not set FORCE_TM_TEST=1 to skip this test.", name)
		}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	// log process output for verbose debugging....
	if os.Getenv("TM_DEBUG") != "" {
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		t.Fatalf("%s process failed: %s", name, err)
	}

	// Give the process time to setup.
	time.Sleep(2 * time.Second)
	t.Logf("Running %s pid=%d", path, cmd.Process.Pid)

	// Return a cleanup function, that will wait for the process to stop.
	// We also auto-kill when the context is Done
	done := make(chan struct{})

	var once sync.Once
	cleanup = func() {
		once.Do(func() {
			t.Logf("%s cleanup called", name)
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			close(done)
		})

		// Block until the process is gone.
		<-done
	}

	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()

	return cleanup
}

// Node describes a home directory prepared by SetupConfig.
type Node struct {
	Home    string
	ChainID string
	// RPCAddr is the address clients connect to.
	RPCAddr string
	// ProxyAddr is the address the application must listen on.
	ProxyAddr string
}

// SetupConfig creates a homedir to run inside, with a single validator
// tendermint configuration and a genesis file carrying given application
// state.
//
// second argument is cleanup call
func SetupConfig(t assert.Tester, chainID string, appState json.RawMessage) (*Node, func()) {
	t.Helper()

	rootDir, err := ioutil.TempDir("", "quorum-tmtest")
	assert.Nil(t, err)
	cleanup := func() { os.RemoveAll(rootDir) }

	rpcPort, proxyPort, p2pPort := freePort(t), freePort(t), freePort(t)
	node := &Node{
		Home:      rootDir,
		ChainID:   chainID,
		RPCAddr:   fmt.Sprintf("http://127.0.0.1:%d", rpcPort),
		ProxyAddr: fmt.Sprintf("tcp://127.0.0.1:%d", proxyPort),
	}

	conf := cfg.DefaultConfig().SetRoot(rootDir)
	conf.RPC.ListenAddress = fmt.Sprintf("tcp://127.0.0.1:%d", rpcPort)
	conf.P2P.ListenAddress = fmt.Sprintf("tcp://127.0.0.1:%d", p2pPort)
	conf.ProxyApp = node.ProxyAddr
	conf.Consensus.TimeoutCommit = 500 * time.Millisecond
	cfg.EnsureRoot(rootDir)
	cfg.WriteConfigFile(filepath.Join(rootDir, "config", "config.toml"), conf)

	pv := privval.LoadOrGenFilePV(conf.PrivValidatorKeyFile(), conf.PrivValidatorStateFile())
	if _, err := p2p.LoadOrGenNodeKey(conf.NodeKeyFile()); err != nil {
		cleanup()
		t.Fatalf("Cannot create node key: %+v", err)
	}

	pub := pv.GetPubKey()
	genesis := types.GenesisDoc{
		GenesisTime:     time.Now(),
		ChainID:         chainID,
		ConsensusParams: types.DefaultConsensusParams(),
		Validators: []types.GenesisValidator{
			{Address: pub.Address(), PubKey: pub, Power: 10},
		},
		AppState: appState,
	}
	if err := genesis.SaveAs(conf.GenesisFile()); err != nil {
		cleanup()
		t.Fatalf("Cannot write genesis: %+v", err)
	}
	return node, cleanup
}

func freePort(t assert.Tester) int {
	port, err := cmn.GetFreePort()
	if err != nil {
		t.Fatalf("cannot acquire a free port: %s", err)
	}
	return port
}
