package system

import (
	"encoding/binary"

	"github.com/iov-one/quorum"
)

// NewCreateAccount builds the instruction assigning space bytes of
// storage to account, owned by owner. Both keys must sign.
func NewCreateAccount(payer, account quorum.Pubkey, space uint64, owner quorum.Pubkey) quorum.Instruction {
	data := make([]byte, 1+createAccountSize)
	data[0] = OpCreateAccount
	binary.LittleEndian.PutUint64(data[1:9], space)
	copy(data[9:], owner[:])
	return quorum.Instruction{
		ProgramID: ProgramID,
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(payer, true),
			quorum.NewAccountMeta(account, true),
		},
		Data: data,
	}
}

// NewTransfer builds the instruction moving lamports between accounts.
func NewTransfer(from, to quorum.Pubkey, lamports uint64) quorum.Instruction {
	data := make([]byte, 9)
	data[0] = OpTransfer
	binary.LittleEndian.PutUint64(data[1:], lamports)
	return quorum.Instruction{
		ProgramID: ProgramID,
		Accounts: []quorum.AccountMeta{
			quorum.NewAccountMeta(from, true),
			quorum.NewAccountMeta(to, false),
		},
		Data: data,
	}
}

// NewUpdateRent builds the instruction changing the non zero fields of
// the rent configuration.
func NewUpdateRent(owner quorum.Pubkey, patch Rent) (quorum.Instruction, error) {
	raw, err := quorum.TxCodec.MarshalBinaryBare(patch)
	if err != nil {
		return quorum.Instruction{}, err
	}
	return quorum.Instruction{
		ProgramID: ProgramID,
		Accounts: []quorum.AccountMeta{
			quorum.NewReadonlyAccountMeta(owner, true),
		},
		Data: append([]byte{OpUpdateRent}, raw...),
	}, nil
}
