package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// bech32Prefix is the human readable part of bech32 encoded keys.
const bech32Prefix = "quorum"

// parseKey accepts both base58 and bech32 encoded keys.
func parseKey(raw string) (quorum.Pubkey, error) {
	if strings.HasPrefix(raw, bech32Prefix+"1") {
		return quorum.ParseBech32Pubkey(bech32Prefix, raw)
	}
	return quorum.ParsePubkey(raw)
}

// flPubkey returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flPubkey(fl *flag.FlagSet, name, defaultVal, usage string) *quorum.Pubkey {
	var k flagkey
	if defaultVal != "" {
		if err := k.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q key flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&k, name, usage)
	return (*quorum.Pubkey)(&k)
}

type flagkey quorum.Pubkey

func (k flagkey) String() string {
	if quorum.Pubkey(k).IsZero() {
		return ""
	}
	return quorum.Pubkey(k).String()
}

func (k *flagkey) Set(raw string) error {
	key, err := parseKey(raw)
	if err != nil {
		return err
	}
	*k = flagkey(key)
	return nil
}

// flPubkeys returns a list of keys given as a comma separated value.
func flPubkeys(fl *flag.FlagSet, name, usage string) *[]quorum.Pubkey {
	var keys flagkeys
	fl.Var(&keys, name, usage)
	return (*[]quorum.Pubkey)(&keys)
}

type flagkeys []quorum.Pubkey

func (l flagkeys) String() string {
	s := make([]string, len(l))
	for i, k := range l {
		s[i] = k.String()
	}
	return strings.Join(s, ",")
}

func (l *flagkeys) Set(raw string) error {
	var keys []quorum.Pubkey
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		k, err := parseKey(chunk)
		if err != nil {
			return err
		}
		keys = append(keys, k)
	}
	*l = keys
	return nil
}

// flMetas returns a list of account references given as a comma separated
// value. Each reference is a key optionally followed by a colon and a set of
// flags: "w" for writable and "s" for signer, for example "<key>:ws".
func flMetas(fl *flag.FlagSet, name, usage string) *[]quorum.AccountMeta {
	var metas flagmetas
	fl.Var(&metas, name, usage)
	return (*[]quorum.AccountMeta)(&metas)
}

type flagmetas []quorum.AccountMeta

func (l flagmetas) String() string {
	s := make([]string, len(l))
	for i, m := range l {
		s[i] = formatMeta(m)
	}
	return strings.Join(s, ",")
}

func (l *flagmetas) Set(raw string) error {
	var metas []quorum.AccountMeta
	for _, chunk := range strings.Split(raw, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		m, err := parseMeta(chunk)
		if err != nil {
			return err
		}
		metas = append(metas, m)
	}
	*l = metas
	return nil
}

func parseMeta(raw string) (quorum.AccountMeta, error) {
	var m quorum.AccountMeta
	key, mode := raw, ""
	if i := strings.LastIndex(raw, ":"); i >= 0 {
		key, mode = raw[:i], raw[i+1:]
	}
	k, err := parseKey(key)
	if err != nil {
		return m, err
	}
	m.Pubkey = k
	for _, c := range mode {
		switch c {
		case 'w':
			m.IsWritable = true
		case 's':
			m.IsSigner = true
		default:
			return m, errors.Wrapf(errors.ErrInput, "unknown account flag %q", c)
		}
	}
	return m, nil
}

func formatMeta(m quorum.AccountMeta) string {
	var mode string
	if m.IsWritable {
		mode += "w"
	}
	if m.IsSigner {
		mode += "s"
	}
	if mode == "" {
		return m.Pubkey.String()
	}
	return m.Pubkey.String() + ":" + mode
}

// flHex returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided.
func flHex(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	var b flagbyte
	if defaultVal != "" {
		if err := b.Set(defaultVal); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q hex encoded flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&b, name, usage)
	return (*[]byte)(&b)
}

type flagbyte []byte

func (b flagbyte) String() string {
	return hex.EncodeToString(b)
}

func (b *flagbyte) Set(raw string) error {
	val, err := hex.DecodeString(raw)
	if err != nil {
		return err
	}
	*b = val
	return nil
}
