package system

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// ProgramID is the identity of the system program and of the allocator.
// Accounts owned by nobody else are owned by the system program.
var ProgramID = quorum.Pubkey{}

// MaxAccountSize is the largest storage region the allocator assigns.
const MaxAccountSize = 10 * 1024 * 1024

// Allocator assigns storage regions. It keeps track of the changes it
// made, so that the runtime can tell them apart from changes made by
// the program that called it.
type Allocator struct {
	rent      Rent
	allocated map[quorum.Pubkey]bool
	debited   map[quorum.Pubkey]uint64
}

var _ quorum.Allocator = (*Allocator)(nil)

// NewAllocator returns an allocator charging according to given rent.
// An allocator must not be shared between instructions.
func NewAllocator(rent Rent) *Allocator {
	return &Allocator{
		rent:      rent,
		allocated: make(map[quorum.Pubkey]bool),
		debited:   make(map[quorum.Pubkey]uint64),
	}
}

// ID implements quorum.Allocator.
func (a *Allocator) ID() quorum.Pubkey {
	return ProgramID
}

// Allocate implements quorum.Allocator.
func (a *Allocator) Allocate(payer, target *quorum.Account, space uint64, owner quorum.Pubkey) error {
	if !target.IsEmpty() {
		return errors.Wrapf(errors.ErrDuplicate, "account %s in use", target.Key)
	}
	if !target.IsWritable {
		return errors.Wrapf(errors.ErrUnauthorized, "account %s is not writable", target.Key)
	}
	if !payer.IsSigner || !payer.IsWritable {
		return errors.Wrapf(errors.ErrUnauthorized, "payer %s must be a writable signer", payer.Key)
	}
	if payer.Key == target.Key {
		return errors.Wrap(errors.ErrInput, "payer cannot fund itself")
	}
	if payer.Owner != ProgramID {
		return errors.Wrapf(errors.ErrUnauthorized, "payer %s is owned by a program", payer.Key)
	}
	if space > MaxAccountSize {
		return errors.Wrapf(errors.ErrInput, "space %d exceeds %d", space, MaxAccountSize)
	}
	deposit, err := a.rent.MinimumBalance(space)
	if err != nil {
		return err
	}
	if payer.Lamports < deposit {
		return errors.Wrapf(errors.ErrInsufficientAmount, "need %d, have %d", deposit, payer.Lamports)
	}

	payer.Lamports -= deposit
	target.Lamports = deposit
	target.Data = make([]byte, space)
	target.Owner = owner
	a.debited[payer.Key] += deposit
	a.allocated[target.Key] = true
	return nil
}

// Allocated returns true if the account was assigned by this allocator.
func (a *Allocator) Allocated(key quorum.Pubkey) bool {
	return a.allocated[key]
}

// Debited returns the amount charged to given payer.
func (a *Allocator) Debited(key quorum.Pubkey) uint64 {
	return a.debited[key]
}
