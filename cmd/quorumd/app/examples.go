package app

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/commands"
	"github.com/iov-one/quorum/crypto"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/system"
)

const exampleChainID = "quorum-testgen"

// we fix the private keys here for deterministic output with the same encoding
// these are not secure at all, but the only point is to check the format,
// which is easier when everything is reproduceable.
var (
	source = makePrivKey("1234567890")
	dst    = makePrivKey("F00BA411")
	guest  = makePrivKey("00CAFE00F00D")
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex. It uses this repeated string as a "random" seed
// for the private key.
//
// nothing random about it, but at least it gives us variety
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	key, err := crypto.PrivKeyEd25519FromSeed(bin)
	if err != nil {
		panic(err)
	}
	return key
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	owners := []quorum.Pubkey{source.Pubkey(), dst.Pubkey(), guest.Pubkey()}

	createGroup, group, err := multisig.NewCreateGroup(MultisigProgramID, source.Pubkey(), system.ProgramID, 1, 2, owners)
	if err != nil {
		panic(err)
	}
	action := multisig.Action{
		Target: system.ProgramID,
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(group, true),
			quorum.NewAccountMeta(guest.Pubkey(), false),
		},
		Payload: system.NewTransfer(group, guest.Pubkey(), 500).Data,
	}
	createProposal, proposal, err := multisig.NewCreateProposal(MultisigProgramID, dst.Pubkey(), system.ProgramID, group, owners, 7, action)
	if err != nil {
		panic(err)
	}
	approve := multisig.NewApprove(MultisigProgramID, guest.Pubkey(), system.ProgramID, proposal, group)
	execute := multisig.NewExecute(MultisigProgramID, system.ProgramID, proposal, group)

	return []commands.Example{
		{Filename: "group_record", Obj: createGroup.Data[1:]},
		{Filename: "proposal_record", Obj: createProposal.Data[1:]},
		{Filename: "transfer_tx", Obj: signed(system.NewTransfer(source.Pubkey(), dst.Pubkey(), 1000), source)},
		{Filename: "create_group_tx", Obj: signed(createGroup, source)},
		{Filename: "create_proposal_tx", Obj: signed(createProposal, dst)},
		{Filename: "approve_tx", Obj: signed(approve, guest)},
		{Filename: "execute_tx", Obj: signed(execute)},
	}
}

func signed(ix quorum.Instruction, signers ...*crypto.PrivateKey) *quorum.Tx {
	tx := &quorum.Tx{Instruction: ix}
	for _, s := range signers {
		if err := tx.Sign(exampleChainID, s); err != nil {
			panic(err)
		}
	}
	return tx
}
