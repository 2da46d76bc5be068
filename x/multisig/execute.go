package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// execute expects [proposal, group, allocator] and no data. Anyone can
// submit it, the roster is the authorization.
func (h *Handler) execute(ctx quorum.Context, accounts []*quorum.Account) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	proposal, group := accounts[0], accounts[1]

	p, ghdr, _, err := h.loadRecords(proposal, group)
	if err != nil {
		return err
	}
	if p.hdr.IsExecuted() {
		return errors.Wrapf(ErrAlreadyExecuted, "%s", proposal.Key)
	}
	approvals := p.signers.CountSigned()
	if approvals < ghdr.Threshold {
		return errors.Wrapf(ErrInsufficientApprovals, "%d of %d", approvals, ghdr.Threshold)
	}
	if err := MarkExecuted(proposal.Data); err != nil {
		return err
	}

	auth := Authorization{
		Proposal:  proposal.Key,
		Group:     group.Key,
		Target:    p.hdr.TargetRef,
		Accounts:  p.accounts,
		Payload:   p.payload,
		Approvals: approvals,
	}
	if err := h.executor.Execute(ctx, auth); err != nil {
		return errors.Wrap(err, "execute")
	}
	return nil
}
