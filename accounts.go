package quorum

import (
	"github.com/iov-one/quorum/errors"
)

// AccountPrefix is prepended to the key of every account stored in the
// state.
const AccountPrefix = "acct:"

// storedAccount is the persisted form of an account. Signer and
// writable flags belong to an instruction, not to the state.
type storedAccount struct {
	Owner    Pubkey
	Lamports uint64
	Data     []byte
}

// AccountKey returns the database key under which an account is stored.
func AccountKey(key Pubkey) []byte {
	return append([]byte(AccountPrefix), key[:]...)
}

// LoadAccount returns the account stored under given key. An account
// that was never stored is returned empty, not as an error.
func LoadAccount(db ReadOnlyKVStore, key Pubkey) (*Account, error) {
	raw, err := db.Get(AccountKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "load account")
	}
	acct := &Account{Key: key}
	if raw == nil {
		return acct, nil
	}
	if err := DecodeAccount(raw, acct); err != nil {
		return nil, errors.Wrapf(err, "account %s", key)
	}
	return acct, nil
}

// DecodeAccount loads the stored form of an account into acct. The key
// and instruction flags of acct are left untouched.
func DecodeAccount(raw []byte, acct *Account) error {
	var s storedAccount
	if err := TxCodec.UnmarshalBinaryBare(raw, &s); err != nil {
		return errors.Wrap(errors.ErrMalformed, err.Error())
	}
	acct.Owner = s.Owner
	acct.Lamports = s.Lamports
	acct.Data = s.Data
	return nil
}

// SaveAccount persists the account. An empty account is removed from
// the state.
func SaveAccount(db KVStore, acct *Account) error {
	key := AccountKey(acct.Key)
	if acct.IsEmpty() {
		return db.Delete(key)
	}
	raw, err := TxCodec.MarshalBinaryBare(storedAccount{
		Owner:    acct.Owner,
		Lamports: acct.Lamports,
		Data:     acct.Data,
	})
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	return db.Set(key, raw)
}
