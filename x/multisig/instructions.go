package multisig

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/address"
	"github.com/iov-one/quorum/errors"
)

// GroupAddress returns the address and bump of the group with given
// seed.
func GroupAddress(program quorum.Pubkey, seed uint64) (quorum.Pubkey, uint8, error) {
	return address.FindDerived(program, GroupNamespace, address.Seed(seed))
}

// ProposalAddress returns the address and bump of the proposal with
// given seed.
func ProposalAddress(program quorum.Pubkey, seed uint64) (quorum.Pubkey, uint8, error) {
	return address.FindDerived(program, ProposalNamespace, address.Seed(seed))
}

// NewCreateGroup builds the instruction creating a group of owners. The
// caller pays for the storage and must be one of the owners. It returns
// the address of the group as well.
func NewCreateGroup(program, caller, allocator quorum.Pubkey, seed, threshold uint64, owners []quorum.Pubkey) (quorum.Instruction, quorum.Pubkey, error) {
	group, bump, err := GroupAddress(program, seed)
	if err != nil {
		return quorum.Instruction{}, group, err
	}
	hdr := GroupHeader{
		Seed:       address.Seed(seed),
		OwnerCount: uint64(len(owners)),
		Threshold:  threshold,
		Bump:       bump,
	}
	record, err := EncodeGroup(hdr, NewOwnerList(owners...))
	if err != nil {
		return quorum.Instruction{}, group, err
	}
	ix := quorum.Instruction{
		ProgramID: program,
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(caller, true),
			quorum.NewAccountMeta(group, false),
			quorum.NewReadonlyAccountMeta(allocator, false),
		},
		Data: append([]byte{OpCreateGroup}, record...),
	}
	return ix, group, nil
}

// Action is the content of a proposal: a target and the accounts and
// payload it is invoked with.
type Action struct {
	Target   quorum.Pubkey
	Accounts []quorum.AccountMeta
	Payload  []byte
}

// NewCreateProposal builds the instruction creating a proposal under
// given group. owners must be the owners of the group in any order. The
// caller approves the proposal by creating it. It returns the address
// of the proposal as well.
func NewCreateProposal(program, caller, allocator, group quorum.Pubkey, owners []quorum.Pubkey, seed uint64, action Action) (quorum.Instruction, quorum.Pubkey, error) {
	proposal, bump, err := ProposalAddress(program, seed)
	if err != nil {
		return quorum.Instruction{}, proposal, err
	}
	roster := make([]SignerEntry, len(owners))
	for i, o := range owners {
		roster[i] = SignerEntry{Key: o, Signed: o == caller}
	}
	hdr := ProposalHeader{
		GroupRef:     group,
		TargetRef:    action.Target,
		AccountCount: uint64(len(action.Accounts)),
		SignerCount:  uint64(len(roster)),
		PayloadLen:   uint64(len(action.Payload)),
		Seed:         address.Seed(seed),
		Bump:         bump,
	}
	record, err := EncodeProposal(hdr, NewAccountList(action.Accounts...), NewSignerList(roster...), action.Payload)
	if err != nil {
		return quorum.Instruction{}, proposal, err
	}
	ix := quorum.Instruction{
		ProgramID: program,
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(caller, true),
			quorum.NewAccountMeta(proposal, false),
			quorum.NewReadonlyAccountMeta(group, false),
			quorum.NewReadonlyAccountMeta(allocator, false),
		},
		Data: append([]byte{OpCreateProposal}, record...),
	}
	return ix, proposal, nil
}

// NewApprove builds the instruction recording the approval of caller.
func NewApprove(program, caller, allocator, proposal, group quorum.Pubkey) quorum.Instruction {
	return quorum.Instruction{
		ProgramID: program,
		Accounts: []quorum.AccountMeta{
			quorum.NewReadonlyAccountMeta(caller, true),
			quorum.NewAccountMeta(proposal, false),
			quorum.NewReadonlyAccountMeta(group, false),
			quorum.NewReadonlyAccountMeta(allocator, false),
		},
		Data: []byte{OpApprove},
	}
}

// NewExecute builds the instruction executing an approved proposal.
func NewExecute(program, allocator, proposal, group quorum.Pubkey) quorum.Instruction {
	return quorum.Instruction{
		ProgramID: program,
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(proposal, false),
			quorum.NewReadonlyAccountMeta(group, false),
			quorum.NewReadonlyAccountMeta(allocator, false),
		},
		Data: []byte{OpExecute},
	}
}

// GroupOwners decodes the owners of a stored group.
func GroupOwners(data []byte) ([]quorum.Pubkey, error) {
	_, owners, err := ParseGroup(data)
	if err != nil {
		return nil, errors.Wrap(err, "group")
	}
	return owners.Keys(), nil
}
