package multisig

import (
	"github.com/iov-one/quorum/errors"
)

// Errors specific to the multisig program. Structural failures are
// reported as errors.ErrMalformed, authorization failures as
// errors.ErrUnauthorized and storage substitution as
// address.ErrAddressMismatch.
var (
	ErrInvalidConfig         = errors.Register(300, "invalid configuration")
	ErrAlreadyApproved       = errors.Register(301, "already approved")
	ErrInsufficientApprovals = errors.Register(302, "insufficient approvals")
	ErrAlreadyExecuted       = errors.Register(303, "already executed")
)
