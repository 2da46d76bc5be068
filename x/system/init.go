package system

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
)

// GenesisAccount is a funded account declared in the genesis file.
type GenesisAccount struct {
	Address  quorum.Pubkey `json:"address"`
	Lamports uint64        `json:"lamports"`
}

// Initializer loads the rent configuration and the initial balances
// from the genesis file.
type Initializer struct{}

var _ quorum.Initializer = Initializer{}

// FromGenesis implements quorum.Initializer.
func (Initializer) FromGenesis(opts quorum.Options, db quorum.KVStore) error {
	switch err := gconf.InitConfig(db, opts, ConfigPkg, &Rent{}); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		// Default rent applies.
	default:
		return errors.Wrap(err, "rent")
	}

	var state struct {
		Accounts []GenesisAccount `json:"accounts"`
	}
	if err := opts.ReadOptions("system", &state); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	for _, a := range state.Accounts {
		acct, err := quorum.LoadAccount(db, a.Address)
		if err != nil {
			return err
		}
		if !acct.IsEmpty() {
			return errors.Wrapf(errors.ErrDuplicate, "account %s", a.Address)
		}
		acct.Lamports = a.Lamports
		if err := quorum.SaveAccount(db, acct); err != nil {
			return errors.Wrapf(err, "account %s", a.Address)
		}
	}
	return nil
}
