package server

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"path/filepath"

	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	appStateKey = "app_state"
	dirConfig   = "config"
	genesisFile = "genesis.json"
	flagForce   = "f"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenerateKey returns a new signing key, along with its seed encoded
// for safe keeping. You can fund the key in the genesis and hand the
// seed to the user.
func GenerateKey() (*crypto.PrivateKey, string) {
	key := crypto.GenPrivKeyEd25519()
	return key, fmt.Sprintf("%X", key.Seed())
}

func parseInitArgs(args []string) (bool, []string, error) {
	var force bool
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	initFlags.BoolVar(&force, flagForce, false, "overwrite existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return false, nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return force, initFlags.Args(), nil
}

// InitCmd will add the app_state produced by gen to the genesis file
// tendermint created under home. An existing app_state is kept unless
// -f is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	force, rest, err := parseInitArgs(args)
	if err != nil {
		return err
	}

	genFile := filepath.Join(home, dirConfig, genesisFile)
	doc, err := loadGenesisDoc(genFile)
	if err != nil {
		return err
	}
	if len(doc[appStateKey]) > 0 && string(doc[appStateKey]) != "null" && !force {
		logger.Info("app_state already set, use -f to overwrite", "path", genFile)
		return nil
	}

	options, err := gen(rest)
	if err != nil {
		return err
	}
	doc[appStateKey] = options
	if err := saveGenesisDoc(genFile, doc); err != nil {
		return err
	}
	logger.Info("app_state written", "path", genFile)
	return nil
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func loadGenesisDoc(filename string) (genesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis, run tendermint init first")
	}
	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrMalformed, err.Error())
	}
	return doc, nil
}

func saveGenesisDoc(filename string, doc genesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode genesis")
	}
	return ioutil.WriteFile(filename, out, 0600)
}
