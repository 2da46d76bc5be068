package server

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/stretchr/testify/require"
)

type keyInit struct{}

func (keyInit) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var value string
	if err := opts.ReadOptions("key", &value); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if value == "" {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	return kv.Set([]byte("key"), []byte(value))
}

func TestValidateGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "quorum-validate")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, ioutil.WriteFile(path, []byte(content), 0600))
		return path
	}
	good := write("good.json", `{"app_state": {"key": "value"}}`)
	empty := write("empty.json", `{"app_state": {}}`)
	broken := write("broken.json", `{"app_state": `)

	require.NoError(t, ValidateGenesis(keyInit{}, []string{good}))
	assert.IsErr(t, errors.ErrEmpty, ValidateGenesis(keyInit{}, []string{good, empty}))
	assert.IsErr(t, errors.ErrMalformed, ValidateGenesis(keyInit{}, []string{broken}))
	require.Error(t, ValidateGenesis(keyInit{}, []string{filepath.Join(dir, "missing.json")}))
}
