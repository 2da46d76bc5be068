package multisig

import (
	"github.com/iov-one/quorum"
)

// Authorization is handed to the Executor once a proposal reached its
// threshold. It is valid only during the Execute call, the account list
// and the payload reference the proposal storage.
type Authorization struct {
	Proposal  quorum.Pubkey
	Group     quorum.Pubkey
	Target    quorum.Pubkey
	Accounts  AccountList
	Payload   []byte
	Approvals uint64
}

// Executor carries out authorized proposals. Returning an error aborts
// the execute instruction and the proposal remains executable.
type Executor interface {
	Execute(ctx quorum.Context, auth Authorization) error
}

// ExecutorFunc allows to use a function as an Executor.
type ExecutorFunc func(quorum.Context, Authorization) error

// Execute implements Executor.
func (fn ExecutorFunc) Execute(ctx quorum.Context, auth Authorization) error {
	return fn(ctx, auth)
}

// LogExecutor only records the authorization in the log.
type LogExecutor struct{}

var _ Executor = LogExecutor{}

// Execute implements Executor.
func (LogExecutor) Execute(ctx quorum.Context, auth Authorization) error {
	quorum.GetLogger(ctx).With("module", "multisig").Info("proposal authorized",
		"proposal", auth.Proposal,
		"target", auth.Target,
		"accounts", auth.Accounts.Len(),
		"payload", len(auth.Payload),
		"approvals", auth.Approvals)
	return nil
}
