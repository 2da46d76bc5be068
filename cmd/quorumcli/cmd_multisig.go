package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum"
	quorumd "github.com/iov-one/quorum/cmd/quorumd/app"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/system"
)

func flProgram(fl *flag.FlagSet) *quorum.Pubkey {
	return flPubkey(fl, "program", env("QUORUMCLI_MULTISIG", quorumd.MultisigProgramID.String()),
		"Multisig program address. You can use QUORUMCLI_MULTISIG environment variable to set it.")
}

func cmdAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print the address of a group or a proposal created with given seed.
`)
		fl.PrintDefaults()
	}
	var (
		programFl = flProgram(fl)
		kindFl    = fl.String("kind", "group", "Kind of the record: group or proposal.")
		seedFl    = fl.Uint64("seed", 0, "Seed the record is created with.")
	)
	fl.Parse(args)

	var (
		addr quorum.Pubkey
		err  error
	)
	switch *kindFl {
	case "group":
		addr, _, err = multisig.GroupAddress(*programFl, *seedFl)
	case "proposal":
		addr, _, err = multisig.ProposalAddress(*programFl, *seedFl)
	default:
		flagDie("unknown record kind %q", *kindFl)
	}
	if err != nil {
		return fmt.Errorf("cannot derive address: %s", err)
	}
	_, err = fmt.Fprintln(output, addr)
	return err
}

func cmdCreateGroup(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction declaring a group of owners and the number of approvals
required to execute a proposal. The caller must be one of the owners and
pays for the storage.

Use the address command to learn the address of the created group.
`)
		fl.PrintDefaults()
	}
	var (
		programFl   = flProgram(fl)
		callerFl    = flPubkey(fl, "caller", "", "Owner paying for the group storage.")
		seedFl      = fl.Uint64("seed", 0, "Seed the group address is derived from.")
		thresholdFl = fl.Uint64("threshold", 0, "Number of approvals required.")
		ownersFl    = flPubkeys(fl, "owners", "Comma separated list of owner addresses.")
	)
	fl.Parse(args)

	if callerFl.IsZero() {
		flagDie("caller is required")
	}
	if *thresholdFl == 0 {
		flagDie("threshold cannot be zero")
	}
	if len(*ownersFl) == 0 {
		flagDie("at least one owner is required")
	}
	ix, _, err := multisig.NewCreateGroup(*programFl, *callerFl, system.ProgramID, *seedFl, *thresholdFl, *ownersFl)
	if err != nil {
		return fmt.Errorf("cannot create instruction: %s", err)
	}
	return writeInstruction(output, ix)
}

func cmdPropose(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction proposing an action to a group. The caller must be an
owner of the group, pays for the storage and approves the proposal by
creating it.

The owners list must contain the group owners. Their order does not matter.
`)
		fl.PrintDefaults()
	}
	var (
		programFl  = flProgram(fl)
		callerFl   = flPubkey(fl, "caller", "", "Owner creating the proposal.")
		groupFl    = flPubkey(fl, "group", "", "Address of the group.")
		ownersFl   = flPubkeys(fl, "owners", "Comma separated list of the group owners.")
		seedFl     = fl.Uint64("seed", 0, "Seed the proposal address is derived from.")
		targetFl   = flPubkey(fl, "target", "", "Program the action is addressed to.")
		accountsFl = flMetas(fl, "accounts", `Comma separated list of accounts the action refers to. Append ":w" for writable and ":s" for signer.`)
		payloadFl  = flHex(fl, "payload", "", "Hex encoded action payload.")
	)
	fl.Parse(args)

	if callerFl.IsZero() || groupFl.IsZero() {
		flagDie("both caller and group are required")
	}
	if len(*ownersFl) == 0 {
		flagDie("group owners are required")
	}
	action := multisig.Action{
		Target:   *targetFl,
		Accounts: *accountsFl,
		Payload:  *payloadFl,
	}
	ix, _, err := multisig.NewCreateProposal(*programFl, *callerFl, system.ProgramID, *groupFl, *ownersFl, *seedFl, action)
	if err != nil {
		return fmt.Errorf("cannot create instruction: %s", err)
	}
	return writeInstruction(output, ix)
}

func cmdApprove(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction approving a proposal. The caller must sign it.
`)
		fl.PrintDefaults()
	}
	var (
		programFl  = flProgram(fl)
		callerFl   = flPubkey(fl, "caller", "", "Owner approving the proposal.")
		proposalFl = flPubkey(fl, "proposal", "", "Address of the proposal.")
		groupFl    = flPubkey(fl, "group", "", "Address of the group.")
	)
	fl.Parse(args)

	if callerFl.IsZero() {
		flagDie("caller is required")
	}
	if proposalFl.IsZero() || groupFl.IsZero() {
		flagDie("both proposal and group are required")
	}
	return writeInstruction(output, multisig.NewApprove(*programFl, *callerFl, system.ProgramID, *proposalFl, *groupFl))
}

func cmdExecute(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction executing a proposal that collected enough approvals.
Anyone can submit it.
`)
		fl.PrintDefaults()
	}
	var (
		programFl  = flProgram(fl)
		proposalFl = flPubkey(fl, "proposal", "", "Address of the proposal.")
		groupFl    = flPubkey(fl, "group", "", "Address of the group.")
	)
	fl.Parse(args)

	if proposalFl.IsZero() || groupFl.IsZero() {
		flagDie("both proposal and group are required")
	}
	return writeInstruction(output, multisig.NewExecute(*programFl, system.ProgramID, *proposalFl, *groupFl))
}
