package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/address"
	"github.com/iov-one/quorum/errors"
)

// createProposal expects [caller, proposal, group, allocator] and the
// encoded proposal record as data.
func (h *Handler) createProposal(ctx quorum.Context, alloc quorum.Allocator, accounts []*quorum.Account, data []byte) error {
	if err := requireAccounts(accounts, 4); err != nil {
		return err
	}
	caller, proposal, group, allocRef := accounts[0], accounts[1], accounts[2], accounts[3]
	if err := requireSigner(caller); err != nil {
		return err
	}

	ghdr, owners, err := ParseGroup(group.Data)
	if err != nil {
		return errors.Wrap(err, "group")
	}
	if err := h.verifyGroup(group, ghdr); err != nil {
		return err
	}

	hdr, accts, signers, payload, err := ParseProposal(data)
	if err != nil {
		return err
	}
	size, err := ProposalSize(hdr.AccountCount, hdr.SignerCount, hdr.PayloadLen)
	if err != nil {
		return errors.Wrap(errors.ErrMalformed, err.Error())
	}
	if uint64(len(data)) != size {
		return errors.Wrapf(errors.ErrMalformed, "proposal is %d bytes, got %d", size, len(data))
	}

	if err := address.VerifyDerived(proposal.Key, h.program, ProposalNamespace, hdr.Seed, hdr.Bump); err != nil {
		return errors.Wrap(err, "proposal")
	}
	if !owners.Contains(caller.Key) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller.Key)
	}
	if hdr.Executed != NotExecuted {
		return errors.Wrap(ErrInvalidConfig, "proposal already executed")
	}
	if hdr.GroupRef != group.Key {
		return errors.Wrapf(ErrInvalidConfig, "proposal references group %s", hdr.GroupRef)
	}
	if err := validateRoster(signers, owners, caller.Key, ghdr.OwnerCount); err != nil {
		return err
	}
	if allocRef.Key != alloc.ID() {
		return errors.Wrapf(errors.ErrMalformed, "%s is not the allocator", allocRef.Key)
	}

	if err := alloc.Allocate(caller, proposal, size, h.program); err != nil {
		return errors.Wrap(err, "allocate proposal")
	}
	if err := WriteProposal(proposal.Data, hdr, accts, signers, payload); err != nil {
		return err
	}

	quorum.GetLogger(ctx).With("module", "multisig").Debug("proposal created",
		"proposal", proposal.Key,
		"group", group.Key,
		"target", hdr.TargetRef)
	return nil
}

// validateRoster requires the roster to list every owner as many times
// as the group does, with only the proposer approved.
func validateRoster(signers SignerList, owners OwnerList, proposer quorum.Pubkey, ownerCount uint64) error {
	if uint64(signers.Len()) != ownerCount {
		return errors.Wrapf(ErrInvalidConfig, "roster of %d for %d owners", signers.Len(), ownerCount)
	}
	for i := 0; i < signers.Len(); i++ {
		key := signers.Key(i)
		if n := owners.Count(key); n == 0 {
			return errors.Wrapf(ErrInvalidConfig, "%s is not an owner", key)
		} else if n != rosterCount(signers, key) {
			return errors.Wrapf(ErrInvalidConfig, "%s listed %d times", key, rosterCount(signers, key))
		}
		want := NotSigned
		if key == proposer {
			want = Signed
		}
		if signers.Mark(i) != want {
			return errors.Wrapf(ErrInvalidConfig, "approval of %s", key)
		}
	}
	return nil
}

func rosterCount(signers SignerList, key quorum.Pubkey) int {
	var n int
	for i := 0; i < signers.Len(); i++ {
		if signers.Key(i) == key {
			n++
		}
	}
	return n
}
