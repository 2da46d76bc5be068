package quorum

import (
	"encoding/json"
)

// Handler is a program: it processes instructions addressed to a single
// program identity.
//
// accounts are the storage references listed by the instruction, in
// order. data is the opaque instruction data. Any returned error aborts
// the instruction and none of the changes made to the accounts are
// persisted.
type Handler interface {
	Process(ctx Context, alloc Allocator, accounts []*Account, data []byte) error
}

// HandlerFunc allows to use a function as a Handler.
type HandlerFunc func(ctx Context, alloc Allocator, accounts []*Account, data []byte) error

// Process implements Handler.
func (fn HandlerFunc) Process(ctx Context, alloc Allocator, accounts []*Account, data []byte) error {
	return fn(ctx, alloc, accounts, data)
}

// Allocator is the storage allocator capability exposed to programs.
// It is the only way for a program to obtain a new storage region.
type Allocator interface {
	// ID is the identity under which the allocator is referenced in the
	// account list of an instruction.
	ID() Pubkey

	// Allocate assigns a zeroed storage region of given size to target,
	// owned by owner. The region is funded from the payer with the
	// minimum balance required to retain it.
	Allocate(payer, target *Account, space uint64, owner Pubkey) error
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	Handle(program Pubkey, h Handler)
}

// Options are the app options
// Each extension can look up it's key and parse the json as desired
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
