package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
	"github.com/iov-one/quorum/store"
)

type testConfig struct {
	Owner  quorum.Pubkey `json:"owner"`
	Number uint64        `json:"number"`
	Text   string        `json:"text"`
}

func (c *testConfig) Validate() error {
	if c.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func (c *testConfig) GetOwner() quorum.Pubkey {
	return c.Owner
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *testConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &testConfig{Owner: quorum.Pubkey{1}, Number: 852151421, Text: "foobar"},
		},
		"no owner": {
			Conf: &testConfig{Text: "foobar"},
		},
		"invalid configuration cannot be saved": {
			Conf:        &testConfig{Number: 1},
			WantSaveErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "test", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			if tc.WantSaveErr != nil {
				return
			}

			var got testConfig
			if err := Load(db, "test", &got); err != nil {
				t.Fatalf("cannot load configuration: %s", err)
			}
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadMissing(t *testing.T) {
	var got testConfig
	err := Load(store.MemStore(), "test", &got)
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestLoadMalformed(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, db.Set(Key("test"), []byte{0xff, 0xff, 0xff}))
	var got testConfig
	assert.IsErr(t, errors.ErrMalformed, Load(db, "test", &got))
}

func TestInitConfig(t *testing.T) {
	const genesis = `
		{
			"conf": {
				"test": {
					"number": 321,
					"text": "hello"
				},
				"broken": {
					"number": 1
				}
			}
		}
	`
	var opts quorum.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	assert.Nil(t, InitConfig(db, opts, "test", &testConfig{}))

	var got testConfig
	assert.Nil(t, Load(db, "test", &got))
	assert.Equal(t, testConfig{Number: 321, Text: "hello"}, got)

	assert.IsErr(t, errors.ErrNotFound, InitConfig(db, opts, "missing", &testConfig{}))
	assert.IsErr(t, errors.ErrEmpty, InitConfig(db, opts, "broken", &testConfig{}))
}
