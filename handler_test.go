package quorum

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestReadOptions(t *testing.T) {
	cases := map[string]struct {
		json    string
		wantErr bool
		exp     struct{ Key int }
	}{
		"happy path": {
			json: `{"conf": {"key": 1}}`,
			exp:  struct{ Key int }{Key: 1},
		},
		"missing key is not an error": {
			json: `{}`,
		},
		"wrong value": {
			json:    `{"conf": {"key": "dasdasas"}}`,
			wantErr: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var o Options
			assert.Nil(t, json.Unmarshal([]byte(tc.json), &o))
			var s struct{ Key int }
			err := o.ReadOptions("conf", &s)
			if tc.wantErr {
				if err == nil {
					t.Fatal("want an error")
				}
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.exp, s)
		})
	}
}

func TestHandlerFunc(t *testing.T) {
	var called int
	h := HandlerFunc(func(ctx Context, alloc Allocator, accounts []*Account, data []byte) error {
		called = len(accounts) + len(data)
		return nil
	})
	var _ Handler = h
	assert.Nil(t, h.Process(nil, nil, []*Account{{}, {}}, []byte{1}))
	assert.Equal(t, 3, called)
}
