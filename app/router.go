package app

import (
	"fmt"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
)

// Router dispatches instructions to programs by their identity.
type Router struct {
	routes map[quorum.Pubkey]quorum.Handler
}

var _ quorum.Registry = (*Router)(nil)

// NewRouter returns a new empty router.
func NewRouter() *Router {
	return &Router{
		routes: make(map[quorum.Pubkey]quorum.Handler),
	}
}

// Handle implements quorum.Registry. It panics if a program is
// registered twice.
func (r *Router) Handle(program quorum.Pubkey, h quorum.Handler) {
	if _, ok := r.routes[program]; ok {
		panic(fmt.Sprintf("re-registering program: %s", program))
	}
	r.routes[program] = h
}

// Handler returns the program registered under given identity.
func (r *Router) Handler(program quorum.Pubkey) (quorum.Handler, error) {
	h, ok := r.routes[program]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "program %s", program)
	}
	return h, nil
}
