package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.Pubkey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	if bytes.Equal(sig, sig2) {
		t.Fatal("different messages produce the same signature")
	}

	if !Verify(public, msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !Verify(public, msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}

	if Verify(public, msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if Verify(public, msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
	if Verify(GenPrivKeyEd25519().Pubkey(), msg, sig) {
		t.Fatal("verified a signature with the wrong key")
	}
}

func TestEmptyPrivateKeySign(t *testing.T) {
	var empty PrivateKey
	_, err := empty.Sign([]byte("foo bar"))
	assert.IsErr(t, errors.ErrState, err)
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	cases := map[string]struct {
		seed    []byte
		wantPub string
		wantErr *errors.Error
	}{
		"zero seed": {
			seed:    make([]byte, SeedSize),
			wantPub: "3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29",
		},
		"seed too short": {
			seed:    make([]byte, SeedSize-1),
			wantErr: errors.ErrInput,
		},
		"seed too long": {
			seed:    make([]byte, SeedSize+1),
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			key, err := PrivKeyEd25519FromSeed(tc.seed)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			pub := key.Pubkey()
			assert.Equal(t, tc.wantPub, hex.EncodeToString(pub[:]))
			assert.Equal(t, tc.seed, key.Seed())
		})
	}
}
