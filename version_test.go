package custody

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.Equal(t, "v0.1.0-dev", Version())

	GitCommit = "abc123"
	defer func() { GitCommit = "" }()
	assert.Equal(t, "v0.1.0-dev abc123", Version())
}
