package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/address"
	"github.com/iov-one/quorum/client"
	"github.com/iov-one/quorum/x/multisig"
)

func cmdShow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Fetch an account from the node and print it out in a JSON form. Groups and
proposals of the multisig program are decoded.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmFlagUsage)
		programFl = flProgram(fl)
		addrFl    = flPubkey(fl, "address", "", "Address of the account.")
	)
	fl.Parse(args)

	if addrFl.IsZero() {
		flagDie("address is required")
	}

	c := client.Dial(*tmAddrFl)
	res, err := c.GetAccount(*addrFl)
	if err != nil {
		return fmt.Errorf("cannot fetch account: %s", err)
	}
	view := newAccountView(res.Account, *programFl)
	view.Height = res.Height
	raw, err := json.MarshalIndent(view, "", "\t")
	if err != nil {
		return fmt.Errorf("cannot JSON serialize: %s", err)
	}
	_, err = output.Write(append(raw, '\n'))
	return err
}

func cmdSearch(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
List committed transactions that modified the state of an account. Each
transaction is printed as a single line JSON object.
`)
		fl.PrintDefaults()
	}
	var (
		tmAddrFl  = fl.String("tm", defaultTmAddr(), tmFlagUsage)
		addrFl    = flPubkey(fl, "address", "", "Address of the account.")
		timeoutFl = fl.Duration("timeout", 10*time.Second, "How long to wait for the node to answer.")
	)
	fl.Parse(args)

	if addrFl.IsZero() {
		flagDie("address is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFl)
	defer cancel()
	found, err := client.Dial(*tmAddrFl).SearchTx(ctx, client.QueryTxByAccount(*addrFl))
	if err != nil {
		return fmt.Errorf("cannot search transactions: %s", err)
	}
	return writeSearchResults(output, found)
}

type txSearchView struct {
	ID     string `json:"id"`
	Height int64  `json:"height"`
	Data   string `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeSearchResults(output io.Writer, found []*client.CommitResult) error {
	enc := json.NewEncoder(output)
	for _, res := range found {
		v := txSearchView{ID: res.ID.String(), Height: res.Height}
		if res.Err != nil {
			v.Error = res.Err.Error()
		} else if res.Result != nil && len(res.Result.Data) != 0 {
			v.Data = hex.EncodeToString(res.Result.Data)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

type accountView struct {
	Height   int64         `json:"height"`
	Address  quorum.Pubkey `json:"address"`
	Owner    quorum.Pubkey `json:"owner"`
	Lamports uint64        `json:"lamports"`
	Data     string        `json:"data,omitempty"`
	Group    *groupView    `json:"group,omitempty"`
	Proposal *proposalView `json:"proposal,omitempty"`
}

type groupView struct {
	Threshold uint64          `json:"threshold"`
	Owners    []quorum.Pubkey `json:"owners"`
}

type proposalView struct {
	Group    quorum.Pubkey   `json:"group"`
	Target   quorum.Pubkey   `json:"target"`
	Accounts []string        `json:"accounts"`
	Payload  string          `json:"payload"`
	Executed bool            `json:"executed"`
	Signed   []quorum.Pubkey `json:"signed"`
	Pending  []quorum.Pubkey `json:"pending"`
}

// newAccountView decodes the account. Records owned by the multisig
// program are recognized by their address, which is derived from the
// seed and bump stored in the record.
func newAccountView(acct *quorum.Account, multisigProgram quorum.Pubkey) accountView {
	v := accountView{
		Address:  acct.Key,
		Owner:    acct.Owner,
		Lamports: acct.Lamports,
		Data:     hex.EncodeToString(acct.Data),
	}
	if acct.Owner != multisigProgram {
		return v
	}
	if hdr, owners, err := multisig.ParseGroup(acct.Data); err == nil &&
		address.VerifyDerived(acct.Key, multisigProgram, multisig.GroupNamespace, hdr.Seed, hdr.Bump) == nil {
		v.Data = ""
		v.Group = &groupView{
			Threshold: hdr.Threshold,
			Owners:    owners.Keys(),
		}
		return v
	}
	if hdr, accounts, signers, payload, err := multisig.ParseProposal(acct.Data); err == nil &&
		address.VerifyDerived(acct.Key, multisigProgram, multisig.ProposalNamespace, hdr.Seed, hdr.Bump) == nil {
		p := &proposalView{
			Group:    hdr.GroupRef,
			Target:   hdr.TargetRef,
			Accounts: []string{},
			Payload:  hex.EncodeToString(payload),
			Executed: hdr.IsExecuted(),
			Signed:   []quorum.Pubkey{},
			Pending:  []quorum.Pubkey{},
		}
		for _, m := range accounts.Metas() {
			p.Accounts = append(p.Accounts, formatMeta(m))
		}
		for _, e := range signers.Entries() {
			if e.Signed {
				p.Signed = append(p.Signed, e.Key)
			} else {
				p.Pending = append(p.Pending, e.Key)
			}
		}
		v.Data = ""
		v.Proposal = p
	}
	return v
}
