package system

import (
	"math"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/gconf"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
)

func TestMinimumBalance(t *testing.T) {
	cases := map[string]struct {
		rent    Rent
		space   uint64
		want    uint64
		wantErr *errors.Error
	}{
		"empty account pays overhead": {
			rent:  DefaultRent(),
			space: 0,
			want:  128 * 3480 * 2,
		},
		"group of three": {
			rent:  DefaultRent(),
			space: 26 + 3*32,
			want:  (128 + 122) * 3480 * 2,
		},
		"size overflow": {
			rent:    DefaultRent(),
			space:   math.MaxUint64,
			wantErr: errors.ErrOverflow,
		},
		"rent overflow": {
			rent:    Rent{LamportsPerByteYear: math.MaxUint64, ExemptionYears: 1},
			space:   2,
			wantErr: errors.ErrOverflow,
		},
		"years overflow": {
			rent:    Rent{LamportsPerByteYear: math.MaxUint64 / 2, ExemptionYears: 3},
			space:   1,
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.rent.MinimumBalance(tc.space)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLoadRent(t *testing.T) {
	db := store.MemStore()

	got, err := LoadRent(db)
	assert.Nil(t, err)
	assert.Equal(t, DefaultRent(), got)

	want := Rent{LamportsPerByteYear: 1, ExemptionYears: 1, AccountOverhead: 0}
	assert.Nil(t, gconf.Save(db, ConfigPkg, &want))
	got, err = LoadRent(db)
	assert.Nil(t, err)
	assert.Equal(t, want, got)

	assert.IsErr(t, errors.ErrEmpty, gconf.Save(db, ConfigPkg, &Rent{ExemptionYears: 1}))
}
