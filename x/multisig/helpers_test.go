package multisig

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

var (
	testProgram   = quorum.MustParsePubkey("3F4YpPhFJo7BjAApz8Zbigxbbp4RBK1UxTBdYdC8M6Uq")
	testAllocator = quorum.Pubkey{}

	alice = quorum.Pubkey{0xa1}
	bob   = quorum.Pubkey{0xb0}
	carol = quorum.Pubkey{0xc4}
	eve   = quorum.Pubkey{0xee}
)

// fakeAllocator funds every allocation with a fixed deposit.
type fakeAllocator struct {
	calls int
}

func (*fakeAllocator) ID() quorum.Pubkey {
	return testAllocator
}

func (a *fakeAllocator) Allocate(payer, target *quorum.Account, space uint64, owner quorum.Pubkey) error {
	a.calls++
	if !target.IsEmpty() {
		return errors.Wrap(errors.ErrDuplicate, "target in use")
	}
	if !payer.IsSigner {
		return errors.Wrap(errors.ErrUnauthorized, "payer")
	}
	target.Data = make([]byte, space)
	target.Owner = owner
	target.Lamports = 1
	return nil
}

// ledger keeps accounts between instructions and applies the changes of
// an instruction only if it succeeds.
type ledger struct {
	t        testing.TB
	handler  *Handler
	alloc    *fakeAllocator
	accounts map[quorum.Pubkey]*quorum.Account
}

func newLedger(t testing.TB, opts ...Option) *ledger {
	return &ledger{
		t:        t,
		handler:  NewHandler(testProgram, opts...),
		alloc:    &fakeAllocator{},
		accounts: make(map[quorum.Pubkey]*quorum.Account),
	}
}

func (l *ledger) account(key quorum.Pubkey) *quorum.Account {
	if a, ok := l.accounts[key]; ok {
		return a
	}
	return &quorum.Account{Key: key}
}

func (l *ledger) put(a *quorum.Account) {
	l.accounts[a.Key] = a
}

// run processes the instruction. Signer flags of the instruction are
// taken as granted.
func (l *ledger) run(ix quorum.Instruction) error {
	l.t.Helper()
	accounts := make([]*quorum.Account, len(ix.Accounts))
	for i, m := range ix.Accounts {
		stored := l.account(m.Pubkey)
		accounts[i] = &quorum.Account{
			Key:        m.Pubkey,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Owner:      stored.Owner,
			Lamports:   stored.Lamports,
			Data:       append([]byte(nil), stored.Data...),
		}
	}
	if err := l.handler.Process(context.Background(), l.alloc, accounts, ix.Data); err != nil {
		return err
	}
	for _, a := range accounts {
		if a.IsWritable {
			l.put(a)
		}
	}
	return nil
}

func (l *ledger) mustRun(ix quorum.Instruction) {
	l.t.Helper()
	if err := l.run(ix); err != nil {
		l.t.Fatalf("cannot process instruction: %+v", err)
	}
}

// createGroup stores a group with given owners, created by the first
// owner.
func (l *ledger) createGroup(seed, threshold uint64, owners ...quorum.Pubkey) quorum.Pubkey {
	l.t.Helper()
	ix, group, err := NewCreateGroup(testProgram, owners[0], testAllocator, seed, threshold, owners)
	if err != nil {
		l.t.Fatalf("cannot build instruction: %s", err)
	}
	l.mustRun(ix)
	return group
}

func (l *ledger) createProposal(caller, group quorum.Pubkey, seed uint64, owners ...quorum.Pubkey) quorum.Pubkey {
	l.t.Helper()
	ix, proposal, err := NewCreateProposal(testProgram, caller, testAllocator, group, owners, seed, testAction())
	if err != nil {
		l.t.Fatalf("cannot build instruction: %s", err)
	}
	l.mustRun(ix)
	return proposal
}

func (l *ledger) proposal(key quorum.Pubkey) (ProposalHeader, SignerList) {
	l.t.Helper()
	hdr, _, signers, _, err := ParseProposal(l.account(key).Data)
	if err != nil {
		l.t.Fatalf("cannot parse proposal: %s", err)
	}
	return hdr, signers
}

func testAction() Action {
	return Action{
		Target: quorum.Pubkey{0x77},
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(quorum.Pubkey{0x10}, false),
			quorum.NewReadonlyAccountMeta(quorum.Pubkey{0x11}, true),
		},
		Payload: []byte("transfer 10"),
	}
}
