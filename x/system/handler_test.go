package system

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
)

// accountsOf turns instruction metas into accounts with given balances.
func accountsOf(ix quorum.Instruction, balances map[quorum.Pubkey]uint64) []*quorum.Account {
	accounts := make([]*quorum.Account, len(ix.Accounts))
	for i, m := range ix.Accounts {
		accounts[i] = &quorum.Account{
			Key:        m.Pubkey,
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
			Lamports:   balances[m.Pubkey],
		}
	}
	return accounts
}

func TestTransfer(t *testing.T) {
	from, to := quorum.Pubkey{1}, quorum.Pubkey{2}

	cases := map[string]struct {
		ix       quorum.Instruction
		balances map[quorum.Pubkey]uint64
		wantErr  *errors.Error
		wantFrom uint64
		wantTo   uint64
	}{
		"valid": {
			ix:       NewTransfer(from, to, 40),
			balances: map[quorum.Pubkey]uint64{from: 100, to: 1},
			wantFrom: 60,
			wantTo:   41,
		},
		"whole balance": {
			ix:       NewTransfer(from, to, 100),
			balances: map[quorum.Pubkey]uint64{from: 100},
			wantFrom: 0,
			wantTo:   100,
		},
		"insufficient": {
			ix:       NewTransfer(from, to, 101),
			balances: map[quorum.Pubkey]uint64{from: 100},
			wantErr:  errors.ErrInsufficientAmount,
			wantFrom: 100,
		},
		"overflow": {
			ix:       NewTransfer(from, to, 2),
			balances: map[quorum.Pubkey]uint64{from: 100, to: 1<<64 - 1},
			wantErr:  errors.ErrOverflow,
			wantFrom: 100,
			wantTo:   1<<64 - 1,
		},
		"not signed": {
			ix: func() quorum.Instruction {
				ix := NewTransfer(from, to, 1)
				ix.Accounts[0].IsSigner = false
				return ix
			}(),
			balances: map[quorum.Pubkey]uint64{from: 100},
			wantErr:  errors.ErrUnauthorized,
			wantFrom: 100,
		},
		"malformed amount": {
			ix: func() quorum.Instruction {
				ix := NewTransfer(from, to, 1)
				ix.Data = ix.Data[:5]
				return ix
			}(),
			balances: map[quorum.Pubkey]uint64{from: 100},
			wantErr:  errors.ErrMalformed,
			wantFrom: 100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			accounts := accountsOf(tc.ix, tc.balances)
			err := Handler{}.Process(context.Background(), NewAllocator(DefaultRent()), accounts, tc.ix.Data)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantFrom, accounts[0].Lamports)
			assert.Equal(t, tc.wantTo, accounts[1].Lamports)
		})
	}
}

func TestTransferFromProgramAccount(t *testing.T) {
	ix := NewTransfer(quorum.Pubkey{1}, quorum.Pubkey{2}, 1)
	accounts := accountsOf(ix, map[quorum.Pubkey]uint64{{1}: 10})
	accounts[0].Owner = quorum.Pubkey{9}
	err := Handler{}.Process(context.Background(), NewAllocator(DefaultRent()), accounts, ix.Data)
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestCreateAccount(t *testing.T) {
	payer, acct, owner := quorum.Pubkey{1}, quorum.Pubkey{2}, quorum.Pubkey{3}
	rent := Rent{LamportsPerByteYear: 1, ExemptionYears: 1}

	ix := NewCreateAccount(payer, acct, 64, owner)
	accounts := accountsOf(ix, map[quorum.Pubkey]uint64{payer: 100})
	err := Handler{}.Process(context.Background(), NewAllocator(rent), accounts, ix.Data)
	assert.Nil(t, err)
	assert.Equal(t, uint64(36), accounts[0].Lamports)
	assert.Equal(t, uint64(64), accounts[1].Lamports)
	assert.Equal(t, owner, accounts[1].Owner)
	assert.Equal(t, 64, len(accounts[1].Data))

	// The new account must sign.
	ix.Accounts[1].IsSigner = false
	accounts = accountsOf(ix, map[quorum.Pubkey]uint64{payer: 100})
	err = Handler{}.Process(context.Background(), NewAllocator(rent), accounts, ix.Data)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	err = Handler{}.Process(context.Background(), NewAllocator(rent), accounts, ix.Data[:10])
	assert.IsErr(t, errors.ErrMalformed, err)
}

func TestUnknownOpcode(t *testing.T) {
	alloc := NewAllocator(DefaultRent())
	assert.IsErr(t, errors.ErrMalformed, Handler{}.Process(context.Background(), alloc, nil, nil))
	assert.IsErr(t, errors.ErrMalformed, Handler{}.Process(context.Background(), alloc, nil, []byte{1}))
}

func TestUpdateRent(t *testing.T) {
	owner := quorum.Pubkey{7}
	db := store.MemStore()
	assert.Nil(t, gconf.Save(db, ConfigPkg, &Rent{Owner: owner, LamportsPerByteYear: 10, ExemptionYears: 2}))
	ctx := WithConfigStore(context.Background(), db)

	ix, err := NewUpdateRent(owner, Rent{LamportsPerByteYear: 5})
	assert.Nil(t, err)

	stranger := accountsOf(ix, nil)
	stranger[0].Key = quorum.Pubkey{8}
	err = Handler{}.Process(ctx, NewAllocator(DefaultRent()), stranger, ix.Data)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	err = Handler{}.Process(ctx, NewAllocator(DefaultRent()), accountsOf(ix, nil), ix.Data)
	assert.Nil(t, err)

	got, err := LoadRent(db)
	assert.Nil(t, err)
	assert.Equal(t, Rent{Owner: owner, LamportsPerByteYear: 5, ExemptionYears: 2}, got)

	// Without a configuration store the instruction cannot run.
	err = Handler{}.Process(context.Background(), NewAllocator(DefaultRent()), accountsOf(ix, nil), ix.Data)
	assert.IsErr(t, errors.ErrState, err)
}

func TestGenesis(t *testing.T) {
	alice := quorum.Pubkey{0xa1}
	genesis := `
		{
			"conf": {
				"system": {
					"lamports_per_byte_year": 1,
					"exemption_years": 3
				}
			},
			"system": {
				"accounts": [
					{"address": "` + alice.String() + `", "lamports": 5000}
				]
			}
		}
	`
	var opts quorum.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(opts, db))

	acct, err := quorum.LoadAccount(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, uint64(5000), acct.Lamports)
	assert.Equal(t, ProgramID, acct.Owner)

	rent, err := LoadRent(db)
	assert.Nil(t, err)
	assert.Equal(t, Rent{LamportsPerByteYear: 1, ExemptionYears: 3}, rent)

	assert.IsErr(t, errors.ErrDuplicate, Initializer{}.FromGenesis(opts, db))
}

func TestGenesisDefaultRent(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, Initializer{}.FromGenesis(quorum.Options{}, db))
	rent, err := LoadRent(db)
	assert.Nil(t, err)
	assert.Equal(t, DefaultRent(), rent)
}
