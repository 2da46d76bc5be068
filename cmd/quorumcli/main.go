package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/quorum"
)

// commands is a register of all availables commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program and command name. Commands that build a transaction
// write it to the output so that they can be combined into a pipeline:
//
//   $ quorumcli approve -proposal <addr> -group <addr> \
//       | quorumcli sign \
//       | quorumcli submit
//
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"address":        cmdAddress,
	"approve":        cmdApprove,
	"create-account": cmdCreateAccount,
	"create-group":   cmdCreateGroup,
	"execute":        cmdExecute,
	"keyaddr":        cmdKeyaddr,
	"keygen":         cmdKeygen,
	"propose":        cmdPropose,
	"search":         cmdSearch,
	"show":           cmdShow,
	"sign":           cmdSignTransaction,
	"submit":         cmdSubmitTransaction,
	"transfer":       cmdTransfer,
	"version":        cmdVersion,
	"view":           cmdTransactionView,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s is a command line client for the quorumd application.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> -help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	_, err := fmt.Fprintln(out, quorum.Version())
	return err
}
