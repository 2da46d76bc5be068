package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/address"
	"github.com/iov-one/quorum/errors"
)

// createGroup expects [caller, group, allocator] and the encoded group
// record as data.
func (h *Handler) createGroup(ctx quorum.Context, alloc quorum.Allocator, accounts []*quorum.Account, data []byte) error {
	if err := requireAccounts(accounts, 3); err != nil {
		return err
	}
	caller, group, allocRef := accounts[0], accounts[1], accounts[2]
	if err := requireSigner(caller); err != nil {
		return err
	}

	hdr, owners, err := ParseGroup(data)
	if err != nil {
		return err
	}
	size, err := GroupSize(hdr.OwnerCount)
	if err != nil {
		return errors.Wrap(errors.ErrMalformed, err.Error())
	}
	if uint64(len(data)) != size {
		return errors.Wrapf(errors.ErrMalformed, "group of %d owners is %d bytes, got %d", hdr.OwnerCount, size, len(data))
	}

	if err := address.VerifyDerived(group.Key, h.program, GroupNamespace, hdr.Seed, hdr.Bump); err != nil {
		return errors.Wrap(err, "group")
	}
	if err := hdr.Validate(); err != nil {
		return err
	}
	if !h.allowDuplicateOwners && owners.HasDuplicates() {
		return errors.Wrap(ErrInvalidConfig, "duplicated owner")
	}
	if !owners.Contains(caller.Key) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not an owner", caller.Key)
	}
	if allocRef.Key != alloc.ID() {
		return errors.Wrapf(errors.ErrMalformed, "%s is not the allocator", allocRef.Key)
	}

	if err := alloc.Allocate(caller, group, size, h.program); err != nil {
		return errors.Wrap(err, "allocate group")
	}
	if err := WriteGroup(group.Data, hdr, owners); err != nil {
		return err
	}

	quorum.GetLogger(ctx).With("module", "multisig").Debug("group created",
		"group", group.Key,
		"owners", hdr.OwnerCount,
		"threshold", hdr.Threshold)
	return nil
}
