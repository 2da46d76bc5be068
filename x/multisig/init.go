package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/address"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/x/system"
)

// GenesisGroup is the genesis form of a group.
type GenesisGroup struct {
	Seed      uint64          `json:"seed"`
	Owners    []quorum.Pubkey `json:"owners"`
	Threshold uint64          `json:"threshold"`
	Lamports  uint64          `json:"lamports"`
}

// Initializer stores groups declared in the genesis file under the
// "multisig" key.
type Initializer struct {
	Program              quorum.Pubkey
	AllowDuplicateOwners bool
}

var _ quorum.Initializer = (*Initializer)(nil)

// FromGenesis implements quorum.Initializer. Every group must hold at least
// the rent exempt balance for its size, using the rent configuration stored
// by the system initializer.
func (i *Initializer) FromGenesis(opts quorum.Options, kv quorum.KVStore) error {
	var groups []GenesisGroup
	if err := opts.ReadOptions("multisig", &groups); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if len(groups) == 0 {
		return nil
	}
	rent, err := system.LoadRent(kv)
	if err != nil {
		return err
	}
	for n, g := range groups {
		key, bump, err := GroupAddress(i.Program, g.Seed)
		if err != nil {
			return errors.Wrapf(err, "group #%d", n)
		}
		hdr := GroupHeader{
			Seed:       address.Seed(g.Seed),
			OwnerCount: uint64(len(g.Owners)),
			Threshold:  g.Threshold,
			Bump:       bump,
		}
		if err := hdr.Validate(); err != nil {
			return errors.Wrapf(err, "group #%d", n)
		}
		owners := NewOwnerList(g.Owners...)
		if !i.AllowDuplicateOwners && owners.HasDuplicates() {
			return errors.Wrapf(ErrInvalidConfig, "group #%d: duplicated owner", n)
		}
		size, err := GroupSize(hdr.OwnerCount)
		if err != nil {
			return errors.Wrapf(err, "group #%d", n)
		}
		minBalance, err := rent.MinimumBalance(size)
		if err != nil {
			return errors.Wrapf(err, "group #%d", n)
		}
		if g.Lamports < minBalance {
			return errors.Wrapf(errors.ErrInsufficientAmount, "group #%d: need %d, have %d", n, minBalance, g.Lamports)
		}
		existing, err := quorum.LoadAccount(kv, key)
		if err != nil {
			return err
		}
		if !existing.IsEmpty() {
			return errors.Wrapf(errors.ErrDuplicate, "group #%d: %s", n, key)
		}
		data, err := EncodeGroup(hdr, owners)
		if err != nil {
			return errors.Wrapf(err, "group #%d", n)
		}
		acct := &quorum.Account{
			Key:      key,
			Owner:    i.Program,
			Lamports: g.Lamports,
			Data:     data,
		}
		if err := quorum.SaveAccount(kv, acct); err != nil {
			return errors.Wrapf(err, "group #%d", n)
		}
	}
	return nil
}
