package app

import (
	"context"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
)

func TestRouter(t *testing.T) {
	var called int
	handler := quorum.HandlerFunc(func(quorum.Context, quorum.Allocator, []*quorum.Account, []byte) error {
		called++
		return nil
	})
	program := quorum.Pubkey{1}

	r := NewRouter()
	r.Handle(program, handler)

	h, err := r.Handler(program)
	assert.Nil(t, err)
	assert.Nil(t, h.Process(context.Background(), nil, nil, nil))
	assert.Equal(t, 1, called)

	_, err = r.Handler(quorum.Pubkey{2})
	assert.IsErr(t, errors.ErrNotFound, err)

	assert.Panics(t, func() { r.Handle(program, handler) })
}
