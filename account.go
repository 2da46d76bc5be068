package quorum

// Account is the view of one storage region handed to a program for the
// duration of a single instruction.
//
// Data is the raw storage region. A program may change Data only if it
// is the Owner of the account and the account is writable; the runtime
// rejects the instruction otherwise.
type Account struct {
	Key        Pubkey
	IsSigner   bool
	IsWritable bool

	// Owner is the program allowed to modify Data.
	Owner Pubkey
	// Lamports is the deposit held by this account.
	Lamports uint64
	Data     []byte
}

// IsEmpty returns true if the storage region was never allocated.
func (a *Account) IsEmpty() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner.IsZero()
}

// AccountMeta describes how an instruction refers to an account.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

// NewAccountMeta returns a meta for a writable account.
func NewAccountMeta(key Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: key, IsSigner: isSigner, IsWritable: true}
}

// NewReadonlyAccountMeta returns a meta for an account the program may
// only read.
func NewReadonlyAccountMeta(key Pubkey, isSigner bool) AccountMeta {
	return AccountMeta{Pubkey: key, IsSigner: isSigner, IsWritable: false}
}
