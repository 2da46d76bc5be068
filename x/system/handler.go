package system

import (
	"encoding/binary"
	"math/bits"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
)

// Instruction opcodes of the system program.
const (
	OpCreateAccount uint8 = 0
	OpTransfer      uint8 = 2
	OpUpdateRent    uint8 = 3
)

// Handler is the system program.
type Handler struct{}

var _ quorum.Handler = Handler{}

// RegisterRoutes registers the system program.
func RegisterRoutes(r quorum.Registry) {
	r.Handle(ProgramID, Handler{})
}

// Process implements quorum.Handler.
func (h Handler) Process(ctx quorum.Context, alloc quorum.Allocator, accounts []*quorum.Account, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(errors.ErrMalformed, "missing opcode")
	}
	op, payload := data[0], data[1:]
	switch op {
	case OpCreateAccount:
		return h.createAccount(ctx, alloc, accounts, payload)
	case OpTransfer:
		return h.transfer(ctx, accounts, payload)
	case OpUpdateRent:
		return h.updateRent(ctx, accounts, payload)
	default:
		return errors.Wrapf(errors.ErrMalformed, "unknown opcode %d", op)
	}
}

const createAccountSize = 8 + quorum.PubkeyLength

func (Handler) createAccount(ctx quorum.Context, alloc quorum.Allocator, accounts []*quorum.Account, data []byte) error {
	if len(accounts) != 2 {
		return errors.Wrapf(errors.ErrMalformed, "want 2 accounts, got %d", len(accounts))
	}
	if len(data) != createAccountSize {
		return errors.Wrapf(errors.ErrMalformed, "want %d bytes, got %d", createAccountSize, len(data))
	}
	payer, acct := accounts[0], accounts[1]
	// Only the holder of the account key can claim it. Derived
	// addresses have no key and are allocated by their programs.
	if !acct.IsSigner {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", acct.Key)
	}
	space := binary.LittleEndian.Uint64(data[:8])
	owner, err := quorum.NewPubkey(data[8:])
	if err != nil {
		return err
	}
	if err := alloc.Allocate(payer, acct, space, owner); err != nil {
		return err
	}
	quorum.GetLogger(ctx).With("module", "system").Debug("account created",
		"account", acct.Key,
		"space", space,
		"owner", owner)
	return nil
}

func (Handler) transfer(ctx quorum.Context, accounts []*quorum.Account, data []byte) error {
	if len(accounts) != 2 {
		return errors.Wrapf(errors.ErrMalformed, "want 2 accounts, got %d", len(accounts))
	}
	if len(data) != 8 {
		return errors.Wrapf(errors.ErrMalformed, "want 8 bytes, got %d", len(data))
	}
	from, to := accounts[0], accounts[1]
	if !from.IsSigner {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", from.Key)
	}
	if from.Owner != ProgramID {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is owned by a program", from.Key)
	}
	amount := binary.LittleEndian.Uint64(data)
	if amount > from.Lamports {
		return errors.Wrapf(errors.ErrInsufficientAmount, "need %d, have %d", amount, from.Lamports)
	}
	if from.Key == to.Key {
		return nil
	}
	sum, carry := bits.Add64(to.Lamports, amount, 0)
	if carry != 0 {
		return errors.Wrap(errors.ErrOverflow, "recipient balance")
	}
	from.Lamports -= amount
	to.Lamports = sum
	quorum.GetLogger(ctx).With("module", "system").Debug("transfer",
		"from", from.Key,
		"to", to.Key,
		"lamports", amount)
	return nil
}

// updateRent expects the configuration owner as the only account.
func (Handler) updateRent(ctx quorum.Context, accounts []*quorum.Account, data []byte) error {
	if len(accounts) != 1 {
		return errors.Wrapf(errors.ErrMalformed, "want 1 account, got %d", len(accounts))
	}
	var payload Rent
	if err := quorum.TxCodec.UnmarshalBinaryBare(data, &payload); err != nil {
		return errors.Wrap(errors.ErrMalformed, err.Error())
	}
	db, ok := ConfigStore(ctx)
	if !ok {
		return errors.Wrap(errors.ErrState, "no configuration store")
	}
	signer := accounts[0]
	signed := func(k quorum.Pubkey) bool {
		return signer.IsSigner && signer.Key == k
	}
	var current Rent
	if err := gconf.Patch(db, ConfigPkg, signed, &current, &payload); err != nil {
		return err
	}
	quorum.GetLogger(ctx).With("module", "system").Info("rent updated",
		"lamports_per_byte_year", current.LamportsPerByteYear,
		"exemption_years", current.ExemptionYears)
	return nil
}
