package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/address"
	"github.com/iov-one/quorum/errors"
)

// Instruction opcodes, carried by the first byte of the instruction
// data.
const (
	OpCreateGroup    uint8 = 0
	OpCreateProposal uint8 = 1
	OpApprove        uint8 = 2
	OpExecute        uint8 = 3
)

// Handler is the multisig program.
type Handler struct {
	program              quorum.Pubkey
	allowDuplicateOwners bool
	executor             Executor
}

var _ quorum.Handler = (*Handler)(nil)

// Option configures a Handler.
type Option func(*Handler)

// AllowDuplicateOwners makes the handler accept groups that list the
// same owner more than once. The roster of every proposal must then
// repeat that owner the same number of times.
func AllowDuplicateOwners() Option {
	return func(h *Handler) {
		h.allowDuplicateOwners = true
	}
}

// WithExecutor sets the executor that receives every authorized
// proposal. By default authorizations are only logged.
func WithExecutor(e Executor) Option {
	return func(h *Handler) {
		h.executor = e
	}
}

// NewHandler returns the multisig program running under given identity.
// All record addresses are derived from that identity.
func NewHandler(program quorum.Pubkey, opts ...Option) *Handler {
	h := &Handler{
		program:  program,
		executor: LogExecutor{},
	}
	for _, fn := range opts {
		fn(h)
	}
	return h
}

// Program returns the identity of the program.
func (h *Handler) Program() quorum.Pubkey {
	return h.program
}

// RegisterRoutes registers the program under its identity.
func (h *Handler) RegisterRoutes(r quorum.Registry) {
	r.Handle(h.program, h)
}

// Process implements quorum.Handler.
func (h *Handler) Process(ctx quorum.Context, alloc quorum.Allocator, accounts []*quorum.Account, data []byte) error {
	if len(data) == 0 {
		return errors.Wrap(errors.ErrMalformed, "missing opcode")
	}
	op, payload := data[0], data[1:]
	switch op {
	case OpCreateGroup:
		return h.createGroup(ctx, alloc, accounts, payload)
	case OpCreateProposal:
		return h.createProposal(ctx, alloc, accounts, payload)
	case OpApprove:
		return h.approve(ctx, accounts)
	case OpExecute:
		return h.execute(ctx, accounts)
	default:
		return errors.Wrapf(errors.ErrMalformed, "unknown opcode %d", op)
	}
}

func requireAccounts(accounts []*quorum.Account, want int) error {
	if len(accounts) != want {
		return errors.Wrapf(errors.ErrMalformed, "want %d accounts, got %d", want, len(accounts))
	}
	return nil
}

func requireSigner(a *quorum.Account) error {
	if !a.IsSigner {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", a.Key)
	}
	return nil
}

// requireOwned ensures a record was written by this program. A region
// owned by anyone else cannot hold a record of this program.
func (h *Handler) requireOwned(a *quorum.Account) error {
	if a.Owner != h.program {
		return errors.Wrapf(address.ErrAddressMismatch, "%s not owned by program", a.Key)
	}
	return nil
}

func (h *Handler) verifyGroup(a *quorum.Account, hdr GroupHeader) error {
	if err := h.requireOwned(a); err != nil {
		return err
	}
	if err := address.VerifyDerived(a.Key, h.program, GroupNamespace, hdr.Seed, hdr.Bump); err != nil {
		return errors.Wrap(err, "group")
	}
	return nil
}

func (h *Handler) verifyProposal(a *quorum.Account, hdr ProposalHeader) error {
	if err := h.requireOwned(a); err != nil {
		return err
	}
	if err := address.VerifyDerived(a.Key, h.program, ProposalNamespace, hdr.Seed, hdr.Bump); err != nil {
		return errors.Wrap(err, "proposal")
	}
	return nil
}

// proposalRecord is a decoded proposal, its sections referencing the
// storage region.
type proposalRecord struct {
	hdr      ProposalHeader
	accounts AccountList
	signers  SignerList
	payload  []byte
}

// loadRecords decodes and verifies the proposal and the group it
// references.
func (h *Handler) loadRecords(proposal, group *quorum.Account) (*proposalRecord, GroupHeader, OwnerList, error) {
	var p proposalRecord
	var err error
	p.hdr, p.accounts, p.signers, p.payload, err = ParseProposal(proposal.Data)
	if err != nil {
		return nil, GroupHeader{}, nil, errors.Wrap(err, "proposal")
	}
	ghdr, owners, err := ParseGroup(group.Data)
	if err != nil {
		return nil, GroupHeader{}, nil, errors.Wrap(err, "group")
	}
	if err := h.verifyProposal(proposal, p.hdr); err != nil {
		return nil, GroupHeader{}, nil, err
	}
	if err := h.verifyGroup(group, ghdr); err != nil {
		return nil, GroupHeader{}, nil, err
	}
	if p.hdr.GroupRef != group.Key {
		return nil, GroupHeader{}, nil, errors.Wrapf(address.ErrAddressMismatch, "proposal of group %s", p.hdr.GroupRef)
	}
	return &p, ghdr, owners, nil
}
