package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum/x/system"
)

func cmdTransfer(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction moving lamports between two accounts. The source account
must sign the transaction.
`)
		fl.PrintDefaults()
	}
	var (
		fromFl   = flPubkey(fl, "from", "", "Source account address.")
		toFl     = flPubkey(fl, "to", "", "Destination account address.")
		amountFl = fl.Uint64("amount", 0, "Number of lamports to move.")
	)
	fl.Parse(args)

	if fromFl.IsZero() || toFl.IsZero() {
		flagDie("both source and destination are required")
	}
	if *amountFl == 0 {
		flagDie("amount cannot be zero")
	}
	return writeInstruction(output, system.NewTransfer(*fromFl, *toFl, *amountFl))
}

func cmdCreateAccount(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Create a transaction allocating storage for an account. The payer funds the
rent exempt deposit. Both payer and the new account must sign.
`)
		fl.PrintDefaults()
	}
	var (
		payerFl   = flPubkey(fl, "payer", "", "Account paying for the storage.")
		accountFl = flPubkey(fl, "account", "", "Address of the allocated account.")
		ownerFl   = flPubkey(fl, "owner", "", "Program owning the allocated account.")
		spaceFl   = fl.Uint64("space", 0, "Size of the storage in bytes.")
	)
	fl.Parse(args)

	if payerFl.IsZero() || accountFl.IsZero() {
		flagDie("both payer and account are required")
	}
	return writeInstruction(output, system.NewCreateAccount(*payerFl, *accountFl, *spaceFl, *ownerFl))
}
