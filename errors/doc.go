/*
Package errors implements the error values used across quorum.

Every error returned to a client should wrap one of the root errors
declared with Register. A root error carries a unique ABCI code, which
allows clients to distinguish failure kinds without parsing messages.
Packages declare their own root errors only when none of the common ones
here fit (see address and x/multisig).

Wrap at the point of failure to attach a stacktrace:

	return errors.Wrap(errors.ErrMalformed, "group header")

Once you have an error, use fmt verbs to get more context:
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
