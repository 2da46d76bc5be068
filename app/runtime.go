package app

import (
	"bytes"
	"math/bits"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x/system"
)

// txPrefix marks the hashes of processed transactions.
const txPrefix = "_tx:"

// Runtime executes transactions. Every transaction carries a single
// instruction that is processed by one program, against the accounts
// the instruction lists.
//
// An instruction either succeeds and all account changes are saved, or
// fails and the state is left untouched.
type Runtime struct {
	router *Router
}

// NewRuntime returns a runtime dispatching to programs registered with
// given router.
func NewRuntime(router *Router) *Runtime {
	return &Runtime{router: router}
}

// snapshot is the state of an account before the instruction.
type snapshot struct {
	owner    quorum.Pubkey
	lamports uint64
	data     []byte
}

// Execute verifies and processes the transaction. Changes are written
// to db only if the instruction succeeds.
func (rt *Runtime) Execute(ctx quorum.Context, db quorum.CacheableKVStore, tx *quorum.Tx) (res *quorum.DeliverResult, err error) {
	defer errors.Recover(&err)

	ix := tx.Instruction
	if err := ix.Validate(); err != nil {
		return nil, err
	}
	chainID := quorum.GetChainID(ctx)
	if err := requireSignatures(tx, chainID); err != nil {
		return nil, err
	}
	handler, err := rt.router.Handler(ix.ProgramID)
	if err != nil {
		return nil, err
	}

	cache := db.CacheWrap()
	defer cache.Discard()

	hash, err := tx.Hash(chainID)
	if err != nil {
		return nil, err
	}
	if err := markProcessed(cache, hash); err != nil {
		return nil, err
	}

	accounts, unique, err := loadAccounts(cache, ix.Accounts)
	if err != nil {
		return nil, err
	}
	before := make(map[quorum.Pubkey]snapshot, len(unique))
	for _, a := range unique {
		before[a.Key] = snapshot{
			owner:    a.Owner,
			lamports: a.Lamports,
			data:     append([]byte(nil), a.Data...),
		}
	}

	rent, err := system.LoadRent(cache)
	if err != nil {
		return nil, err
	}
	alloc := system.NewAllocator(rent)

	pctx := quorum.WithLogInfo(ctx, "program", ix.ProgramID.String())
	pctx = system.WithConfigStore(pctx, cache)
	if err := handler.Process(pctx, alloc, accounts, ix.Data); err != nil {
		return nil, err
	}

	if err := verifyChanges(ix.ProgramID, alloc, unique, before); err != nil {
		return nil, err
	}

	record := store.NewRecordingStore(cache)
	for _, a := range unique {
		if a.IsWritable && changed(a, before[a.Key]) {
			if err := quorum.SaveAccount(record, a); err != nil {
				return nil, err
			}
		}
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "write")
	}

	quorum.GetLogger(ctx).Debug("instruction processed",
		"program", ix.ProgramID.String(),
		"accounts", len(accounts))
	return &quorum.DeliverResult{
		Data: hash,
		Tags: kvPairs(record),
	}, nil
}

// requireSignatures ensures that every signer of the instruction
// signed the transaction.
func requireSignatures(tx *quorum.Tx, chainID string) error {
	signed, err := tx.VerifySignatures(chainID)
	if err != nil {
		return err
	}
	for _, want := range tx.Instruction.Signers() {
		found := false
		for _, got := range signed {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			return errors.Wrapf(errors.ErrUnauthorized, "missing signature of %s", want)
		}
	}
	return nil
}

func markProcessed(db quorum.KVStore, hash []byte) error {
	key := append([]byte(txPrefix), hash...)
	seen, err := db.Has(key)
	if err != nil {
		return err
	}
	if seen {
		return errors.Wrap(errors.ErrDuplicate, "transaction already processed")
	}
	return db.Set(key, []byte{1})
}

// loadAccounts returns the accounts in the order of the metas. An
// account listed more than once is loaded once and shared, with the
// flags of all its metas combined.
func loadAccounts(db quorum.ReadOnlyKVStore, metas []quorum.AccountMeta) ([]*quorum.Account, []*quorum.Account, error) {
	accounts := make([]*quorum.Account, len(metas))
	loaded := make(map[quorum.Pubkey]*quorum.Account, len(metas))
	var unique []*quorum.Account
	for i, m := range metas {
		a, ok := loaded[m.Pubkey]
		if !ok {
			var err error
			a, err = quorum.LoadAccount(db, m.Pubkey)
			if err != nil {
				return nil, nil, err
			}
			loaded[m.Pubkey] = a
			unique = append(unique, a)
		}
		a.IsSigner = a.IsSigner || m.IsSigner
		a.IsWritable = a.IsWritable || m.IsWritable
		accounts[i] = a
	}
	return accounts, unique, nil
}

func changed(a *quorum.Account, b snapshot) bool {
	return a.Owner != b.owner || a.Lamports != b.lamports || !bytes.Equal(a.Data, b.data)
}

// verifyChanges enforces the ownership rules:
// only writable accounts change, only the owner changes data, only the
// allocator assigns storage and owners, deposits are taken only by the
// owner or by the allocator, and no lamports are created or destroyed.
func verifyChanges(program quorum.Pubkey, alloc *system.Allocator, accounts []*quorum.Account, before map[quorum.Pubkey]snapshot) error {
	var sumBefore, sumAfter uint64
	for _, a := range accounts {
		b := before[a.Key]
		var carry uint64
		if sumBefore, carry = bits.Add64(sumBefore, b.lamports, 0); carry != 0 {
			return errors.Wrap(errors.ErrOverflow, "lamports")
		}
		if sumAfter, carry = bits.Add64(sumAfter, a.Lamports, 0); carry != 0 {
			return errors.Wrap(errors.ErrOverflow, "lamports")
		}

		if !changed(a, b) {
			continue
		}
		if !a.IsWritable {
			return errors.Wrapf(errors.ErrUnauthorized, "read only account %s modified", a.Key)
		}
		allocated := alloc.Allocated(a.Key)
		if a.Owner != b.owner && !allocated {
			return errors.Wrapf(errors.ErrUnauthorized, "owner of %s changed", a.Key)
		}
		if !bytes.Equal(a.Data, b.data) && !allocated && b.owner != program {
			return errors.Wrapf(errors.ErrUnauthorized, "data of %s modified by non owner", a.Key)
		}
		if len(a.Data) != len(b.data) && !allocated {
			return errors.Wrapf(errors.ErrUnauthorized, "storage of %s resized", a.Key)
		}
		if a.Lamports < b.lamports && b.owner != program {
			if b.lamports-a.Lamports > alloc.Debited(a.Key) {
				return errors.Wrapf(errors.ErrUnauthorized, "lamports of %s taken by non owner", a.Key)
			}
		}
	}
	if sumBefore != sumAfter {
		return errors.Wrapf(errors.ErrState, "lamports before %d, after %d", sumBefore, sumAfter)
	}
	return nil
}
