package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/x/multisig"
	"github.com/iov-one/quorum/x/system"
)

func cmdTransactionView(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Read binary serialized transaction from standard input and print out its
content in a human readable JSON form.
`)
		fl.PrintDefaults()
	}
	var (
		programFl = flProgram(fl)
	)
	fl.Parse(args)

	tx, _, err := readTx(input)
	if err != nil {
		return fmt.Errorf("cannot read transaction from input: %s", err)
	}
	view := newTxView(tx, *programFl)
	raw, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(append(raw, '\n'))
	return err
}

type txView struct {
	Program    quorum.Pubkey   `json:"program"`
	Operation  string          `json:"operation,omitempty"`
	Accounts   []string        `json:"accounts"`
	Data       string          `json:"data"`
	Nonce      uint64          `json:"nonce"`
	Signatures []quorum.Pubkey `json:"signatures"`
}

func newTxView(tx *quorum.Tx, multisigProgram quorum.Pubkey) txView {
	ix := tx.Instruction
	v := txView{
		Program:    ix.ProgramID,
		Operation:  operationName(ix, multisigProgram),
		Accounts:   make([]string, len(ix.Accounts)),
		Data:       hex.EncodeToString(ix.Data),
		Nonce:      tx.Nonce,
		Signatures: make([]quorum.Pubkey, len(tx.Signatures)),
	}
	for i, m := range ix.Accounts {
		v.Accounts[i] = formatMeta(m)
	}
	for i, s := range tx.Signatures {
		v.Signatures[i] = s.Pubkey
	}
	return v
}

var (
	systemOps = map[uint8]string{
		system.OpCreateAccount: "create_account",
		system.OpTransfer:      "transfer",
		system.OpUpdateRent:    "update_rent",
	}
	multisigOps = map[uint8]string{
		multisig.OpCreateGroup:    "create_group",
		multisig.OpCreateProposal: "create_proposal",
		multisig.OpApprove:        "approve",
		multisig.OpExecute:        "execute",
	}
)

// operationName returns the name of the operation for instructions of
// known programs.
func operationName(ix quorum.Instruction, multisigProgram quorum.Pubkey) string {
	if len(ix.Data) == 0 {
		return ""
	}
	switch ix.ProgramID {
	case system.ProgramID:
		return systemOps[ix.Data[0]]
	case multisigProgram:
		return multisigOps[ix.Data[0]]
	}
	return ""
}
