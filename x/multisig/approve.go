package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// approve expects [caller, proposal, group, allocator] and no data.
// The allocator reference is not used.
func (h *Handler) approve(ctx quorum.Context, accounts []*quorum.Account) error {
	if err := requireAccounts(accounts, 4); err != nil {
		return err
	}
	caller, proposal, group := accounts[0], accounts[1], accounts[2]
	if err := requireSigner(caller); err != nil {
		return err
	}

	p, _, owners, err := h.loadRecords(proposal, group)
	if err != nil {
		return err
	}
	if !owners.Contains(caller.Key) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller.Key)
	}

	i := p.signers.Find(caller.Key)
	switch {
	case i < 0:
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not in the roster", caller.Key)
	case p.signers.Signed(i):
		return errors.Wrapf(ErrAlreadyApproved, "%s", caller.Key)
	}
	p.signers.Sign(i)

	quorum.GetLogger(ctx).With("module", "multisig").Debug("proposal approved",
		"proposal", proposal.Key,
		"owner", caller.Key,
		"approvals", p.signers.CountSigned())
	return nil
}
