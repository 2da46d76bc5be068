package app

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/system"
	"github.com/stretchr/testify/require"
)

const testChainID = "test-chain-1"

var (
	multisigID = quorum.MustParsePubkey("3F4YpPhFJo7BjAApz8Zbigxbbp4RBK1UxTBdYdC8M6Uq")
	fakeID     = quorum.Pubkey{0xfa}
)

type runtimeEnv struct {
	t   *testing.T
	rt  *Runtime
	db  quorum.CacheableKVStore
	ctx quorum.Context
}

// newRuntimeEnv runs the system and multisig programs, plus fake as a
// program under fakeID if given.
func newRuntimeEnv(t *testing.T, fake quorum.Handler) *runtimeEnv {
	r := NewRouter()
	system.RegisterRoutes(r)
	multisig.NewHandler(multisigID).RegisterRoutes(r)
	if fake != nil {
		r.Handle(fakeID, fake)
	}
	return &runtimeEnv{
		t:   t,
		rt:  NewRuntime(r),
		db:  store.MemStore(),
		ctx: quorum.WithChainID(context.Background(), testChainID),
	}
}

func (e *runtimeEnv) exec(ix quorum.Instruction, nonce uint64, signers ...quorum.Signer) (*quorum.DeliverResult, error) {
	tx := quorumtest.SignedTx(e.t, testChainID, ix, nonce, signers...)
	return e.rt.Execute(e.ctx, e.db, tx)
}

func (e *runtimeEnv) mustExec(ix quorum.Instruction, signers ...quorum.Signer) *quorum.DeliverResult {
	e.t.Helper()
	res, err := e.exec(ix, 0, signers...)
	require.NoError(e.t, err)
	return res
}

func (e *runtimeEnv) account(key quorum.Pubkey) *quorum.Account {
	return quorumtest.Account(e.t, e.db, key)
}

func accountTag(key quorum.Pubkey) string {
	return strings.ToUpper(hex.EncodeToString(quorum.AccountKey(key)))
}

func TestRuntimeTransfer(t *testing.T) {
	env := newRuntimeEnv(t, nil)
	alice, bob := quorumtest.NewKey(), quorumtest.NewKey()
	quorumtest.Fund(t, env.db, alice.Pubkey(), system.ProgramID, 100)

	res := env.mustExec(system.NewTransfer(alice.Pubkey(), bob.Pubkey(), 30), alice)

	require.Equal(t, uint64(70), env.account(alice.Pubkey()).Lamports)
	require.Equal(t, uint64(30), env.account(bob.Pubkey()).Lamports)

	hash, err := quorumtest.SignedTx(t, testChainID, system.NewTransfer(alice.Pubkey(), bob.Pubkey(), 30), 0, alice).Hash(testChainID)
	require.NoError(t, err)
	require.Equal(t, hash, res.Data)

	require.Len(t, res.Tags, 2)
	tags := map[string]string{}
	for _, tag := range res.Tags {
		tags[string(tag.Key)] = string(tag.Value)
	}
	require.Equal(t, "s", tags[accountTag(alice.Pubkey())])
	require.Equal(t, "s", tags[accountTag(bob.Pubkey())])
}

func TestRuntimeEmptiedAccountIsDeleted(t *testing.T) {
	env := newRuntimeEnv(t, nil)
	alice, bob := quorumtest.NewKey(), quorumtest.NewKey()
	quorumtest.Fund(t, env.db, alice.Pubkey(), system.ProgramID, 100)

	res := env.mustExec(system.NewTransfer(alice.Pubkey(), bob.Pubkey(), 100), alice)

	ok, err := env.db.Has(quorum.AccountKey(alice.Pubkey()))
	require.NoError(t, err)
	require.False(t, ok)
	for _, tag := range res.Tags {
		if string(tag.Key) == accountTag(alice.Pubkey()) {
			require.Equal(t, "d", string(tag.Value))
		}
	}
}

func TestRuntimeSignatures(t *testing.T) {
	env := newRuntimeEnv(t, nil)
	alice, bob := quorumtest.NewKey(), quorumtest.NewKey()
	quorumtest.Fund(t, env.db, alice.Pubkey(), system.ProgramID, 100)
	ix := system.NewTransfer(alice.Pubkey(), bob.Pubkey(), 10)

	_, err := env.exec(ix, 0)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = env.exec(ix, 0, bob)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Signed for another chain.
	tx := quorumtest.SignedTx(t, "other-chain", ix, 0, alice)
	_, err = env.rt.Execute(env.ctx, env.db, tx)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	require.Equal(t, uint64(100), env.account(alice.Pubkey()).Lamports)
}

func TestRuntimeReplay(t *testing.T) {
	env := newRuntimeEnv(t, nil)
	alice, bob := quorumtest.NewKey(), quorumtest.NewKey()
	quorumtest.Fund(t, env.db, alice.Pubkey(), system.ProgramID, 100)
	ix := system.NewTransfer(alice.Pubkey(), bob.Pubkey(), 10)

	_, err := env.exec(ix, 1, alice)
	require.NoError(t, err)
	_, err = env.exec(ix, 1, alice)
	assert.IsErr(t, errors.ErrDuplicate, err)
	_, err = env.exec(ix, 2, alice)
	require.NoError(t, err)

	require.Equal(t, uint64(80), env.account(alice.Pubkey()).Lamports)
}

func TestRuntimeFailedTransactionCanBeRetried(t *testing.T) {
	env := newRuntimeEnv(t, nil)
	alice, bob := quorumtest.NewKey(), quorumtest.NewKey()
	ix := system.NewTransfer(alice.Pubkey(), bob.Pubkey(), 10)

	_, err := env.exec(ix, 0, alice)
	assert.IsErr(t, errors.ErrInsufficientAmount, err)

	quorumtest.Fund(t, env.db, alice.Pubkey(), system.ProgramID, 10)
	_, err = env.exec(ix, 0, alice)
	require.NoError(t, err)
}

func TestRuntimeUnknownProgram(t *testing.T) {
	env := newRuntimeEnv(t, nil)
	alice := quorumtest.NewKey()
	ix := quorum.Instruction{
		ProgramID: quorum.Pubkey{0x99},
		Accounts:  []quorum.AccountMeta{quorum.NewAccountMeta(alice.Pubkey(), true)},
	}
	_, err := env.exec(ix, 0, alice)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestRuntimeOwnershipRules(t *testing.T) {
	owned, foreign := quorum.Pubkey{0x01}, quorum.Pubkey{0x02}

	cases := map[string]struct {
		readonly bool
		program  func(owned, foreign *quorum.Account) error
		wantErr  *errors.Error
	}{
		"owner modifies data": {
			program: func(owned, foreign *quorum.Account) error {
				owned.Data[0] = 7
				return nil
			},
		},
		"owner moves lamports out": {
			program: func(owned, foreign *quorum.Account) error {
				owned.Lamports -= 5
				foreign.Lamports += 5
				return nil
			},
		},
		"non owner credited": {
			program: func(owned, foreign *quorum.Account) error {
				owned.Lamports--
				foreign.Lamports++
				return nil
			},
		},
		"non owner data modified": {
			program: func(owned, foreign *quorum.Account) error {
				foreign.Data[0] = 7
				return nil
			},
			wantErr: errors.ErrUnauthorized,
		},
		"non owner debited": {
			program: func(owned, foreign *quorum.Account) error {
				foreign.Lamports--
				owned.Lamports++
				return nil
			},
			wantErr: errors.ErrUnauthorized,
		},
		"owner reassigned": {
			program: func(owned, foreign *quorum.Account) error {
				owned.Owner = quorum.Pubkey{0x42}
				return nil
			},
			wantErr: errors.ErrUnauthorized,
		},
		"data resized": {
			program: func(owned, foreign *quorum.Account) error {
				owned.Data = append(owned.Data, 1)
				return nil
			},
			wantErr: errors.ErrUnauthorized,
		},
		"lamports created": {
			program: func(owned, foreign *quorum.Account) error {
				owned.Lamports++
				return nil
			},
			wantErr: errors.ErrState,
		},
		"read only modified": {
			readonly: true,
			program: func(owned, foreign *quorum.Account) error {
				owned.Data[0] = 7
				return nil
			},
			wantErr: errors.ErrUnauthorized,
		},
		"program failure": {
			program: func(owned, foreign *quorum.Account) error {
				owned.Data[0] = 7
				return errors.Wrap(errors.ErrInput, "nope")
			},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			fake := quorum.HandlerFunc(func(ctx quorum.Context, alloc quorum.Allocator, accounts []*quorum.Account, data []byte) error {
				return tc.program(accounts[0], accounts[1])
			})
			env := newRuntimeEnv(t, fake)
			caller := quorumtest.NewKey()
			require.NoError(t, quorum.SaveAccount(env.db, &quorum.Account{Key: owned, Owner: fakeID, Lamports: 10, Data: []byte{1, 2}}))
			require.NoError(t, quorum.SaveAccount(env.db, &quorum.Account{Key: foreign, Owner: quorum.Pubkey{0x33}, Lamports: 10, Data: []byte{3, 4}}))

			meta := quorum.NewAccountMeta(owned, false)
			if tc.readonly {
				meta = quorum.NewReadonlyAccountMeta(owned, false)
			}
			ix := quorum.Instruction{
				ProgramID: fakeID,
				Accounts: []quorum.AccountMeta{
					meta,
					quorum.NewAccountMeta(foreign, false),
					quorum.NewReadonlyAccountMeta(caller.Pubkey(), true),
				},
			}
			_, err := env.exec(ix, 0, caller)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				// Nothing is saved on failure.
				require.Equal(t, []byte{1, 2}, env.account(owned).Data)
				require.Equal(t, uint64(10), env.account(owned).Lamports)
				require.Equal(t, uint64(10), env.account(foreign).Lamports)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRuntimeSharedAccounts(t *testing.T) {
	var seen []*quorum.Account
	fake := quorum.HandlerFunc(func(ctx quorum.Context, alloc quorum.Allocator, accounts []*quorum.Account, data []byte) error {
		seen = accounts
		return nil
	})
	env := newRuntimeEnv(t, fake)
	caller := quorumtest.NewKey()
	key := quorum.Pubkey{0x05}
	ix := quorum.Instruction{
		ProgramID: fakeID,
		Accounts: []quorum.AccountMeta{
			quorum.NewReadonlyAccountMeta(key, false),
			quorum.NewAccountMeta(key, false),
			quorum.NewReadonlyAccountMeta(caller.Pubkey(), true),
		},
	}
	_, err := env.exec(ix, 0, caller)
	require.NoError(t, err)
	require.Len(t, seen, 3)
	require.True(t, seen[0] == seen[1])
	require.True(t, seen[0].IsWritable)
	require.True(t, seen[2].IsSigner)
}

func TestRuntimeMultisig(t *testing.T) {
	env := newRuntimeEnv(t, nil)
	keys := quorumtest.NewKeys(3)
	owners := make([]quorum.Pubkey, len(keys))
	for i, k := range keys {
		owners[i] = k.Pubkey()
		quorumtest.Fund(t, env.db, k.Pubkey(), system.ProgramID, 1e9)
	}
	alice, bob, carol := keys[0], keys[1], keys[2]

	ix, group, err := multisig.NewCreateGroup(multisigID, alice.Pubkey(), system.ProgramID, 1, 2, owners)
	require.NoError(t, err)
	env.mustExec(ix, alice)

	groupAcct := env.account(group)
	require.Equal(t, multisigID, groupAcct.Owner)
	rent := system.DefaultRent()
	deposit, err := rent.MinimumBalance(uint64(len(groupAcct.Data)))
	require.NoError(t, err)
	require.Equal(t, deposit, groupAcct.Lamports)
	require.Equal(t, uint64(1e9)-deposit, env.account(alice.Pubkey()).Lamports)

	action := multisig.Action{
		Target:  quorum.Pubkey{0x77},
		Payload: []byte("payload"),
	}
	ix, proposal, err := multisig.NewCreateProposal(multisigID, bob.Pubkey(), system.ProgramID, group, owners, 9, action)
	require.NoError(t, err)
	env.mustExec(ix, bob)

	_, err = env.exec(multisig.NewExecute(multisigID, system.ProgramID, proposal, group), 0)
	assert.IsErr(t, multisig.ErrInsufficientApprovals, err)

	env.mustExec(multisig.NewApprove(multisigID, carol.Pubkey(), system.ProgramID, proposal, group), carol)

	_, err = env.exec(multisig.NewApprove(multisigID, carol.Pubkey(), system.ProgramID, proposal, group), 1, carol)
	assert.IsErr(t, multisig.ErrAlreadyApproved, err)

	env.mustExec(multisig.NewExecute(multisigID, system.ProgramID, proposal, group))

	hdr, _, signers, payload, err := multisig.ParseProposal(env.account(proposal).Data)
	require.NoError(t, err)
	require.True(t, hdr.IsExecuted())
	require.Equal(t, uint64(2), signers.CountSigned())
	require.Equal(t, []byte("payload"), payload)

	_, err = env.exec(multisig.NewExecute(multisigID, system.ProgramID, proposal, group), 1)
	assert.IsErr(t, multisig.ErrAlreadyExecuted, err)
}

var _ quorum.Signer = (*crypto.PrivateKey)(nil)
