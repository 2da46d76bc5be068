package client

import (
	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/app"
	"github.com/iov-one/quorum/errors"
)

// Store returns the committed application state as a read only store.
func (c *Client) Store() quorum.ReadOnlyKVStore {
	return app.NewABCIStore(c)
}

// AccountResponse is an account along with the height it was read at.
type AccountResponse struct {
	Account *quorum.Account
	Height  int64
}

// GetAccount returns the account stored under given key. An account
// that was never allocated is returned empty.
func (c *Client) GetAccount(key quorum.Pubkey) (*AccountResponse, error) {
	res := c.Query(RequestQuery{
		Path: app.AccountsPath,
		Data: key.Bytes(),
	})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	models, err := app.ParseQueryResponse(res.Key, res.Value)
	if err != nil {
		return nil, err
	}
	out := &AccountResponse{
		Account: &quorum.Account{Key: key},
		Height:  res.Height,
	}
	switch len(models) {
	case 0:
		return out, nil
	case 1:
		if err := quorum.DecodeAccount(models[0].Value, out.Account); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, errors.Wrapf(errors.ErrMalformed, "%d accounts for %s", len(models), key)
	}
}
