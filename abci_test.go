package quorum

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/stretchr/testify/assert"
)

func TestCreateErrorResult(t *testing.T) {
	cases := map[string]struct {
		err   error
		debug bool
		msg   string
		code  uint32
	}{
		"internal error is hidden": {
			err:  fmt.Errorf("base"),
			msg:  "internal error",
			code: 1,
		},
		"internal error in debug mode": {
			err:   fmt.Errorf("base"),
			debug: true,
			msg:   "base",
			code:  1,
		},
		"registered error": {
			err:  errors.Wrap(errors.ErrUnauthorized, "not an owner"),
			msg:  "not an owner: unauthorized",
			code: errors.ErrUnauthorized.ABCICode(),
		},
		"malformed": {
			err:  errors.ErrMalformed,
			msg:  "malformed",
			code: errors.ErrMalformed.ABCICode(),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			dres := DeliverTxError(tc.err, tc.debug)
			assert.True(t, dres.IsErr())
			assert.Contains(t, dres.Log, tc.msg)
			assert.True(t, strings.HasPrefix(dres.Log, "cannot deliver tx"))
			assert.Equal(t, tc.code, dres.Code)

			cres := CheckTxError(tc.err, tc.debug)
			assert.True(t, cres.IsErr())
			assert.Contains(t, cres.Log, tc.msg)
			assert.True(t, strings.HasPrefix(cres.Log, "cannot check tx"))
			assert.Equal(t, tc.code, cres.Code)
		})
	}
}

func TestCreateResults(t *testing.T) {
	d, msg := []byte{1, 3, 4}, "got it"
	dres := DeliverResult{Data: d, Log: msg}
	ad := dres.ToABCI()
	assert.EqualValues(t, d, ad.Data)
	assert.Equal(t, msg, ad.Log)
	assert.Empty(t, ad.Tags)

	cres := CheckResult{Log: "aok"}
	ac := cres.ToABCI()
	assert.Equal(t, "aok", ac.Log)
	assert.Empty(t, ac.Data)
}

func TestParseDeliverOrError(t *testing.T) {
	res := DeliverOrError(nil, errors.Wrap(errors.ErrNotFound, "account"), false)
	_, err := ParseDeliverOrError(res)
	assert.True(t, errors.ErrNotFound.Is(err))

	res = DeliverOrError(&DeliverResult{Data: []byte("ok")}, nil, false)
	got, err := ParseDeliverOrError(res)
	assert.NoError(t, err)
	assert.Equal(t, []byte("ok"), got.Data)
}
