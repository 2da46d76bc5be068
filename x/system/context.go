package system

import (
	"context"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/gconf"
)

type contextKey int

const contextKeyConfig contextKey = iota

// WithConfigStore gives the system program access to the configuration
// store of the instruction being processed.
func WithConfigStore(ctx quorum.Context, db gconf.Store) quorum.Context {
	return context.WithValue(ctx, contextKeyConfig, db)
}

// ConfigStore returns the store set by WithConfigStore.
func ConfigStore(ctx quorum.Context) (gconf.Store, bool) {
	db, ok := ctx.Value(contextKeyConfig).(gconf.Store)
	return db, ok
}
