package quorum_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/quorum"
)

func TestVersion(t *testing.T) {
	quorum.GitCommit = ""
	assert.Equal(t, "v0.1.0-dev", quorum.Version())

	quorum.GitCommit = "12345678"
	assert.Equal(t, "v0.1.0-dev 12345678", quorum.Version())
	quorum.GitCommit = ""
}
