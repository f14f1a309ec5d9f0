package app

import (
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

func TestDeliverRoundTrip(t *testing.T) {
	tags := []common.KVPair{{Key: []byte("action"), Value: []byte("vault/deposit")}}
	res := DeliverOrError(&custody.DeliverResult{Data: []byte("150"), Tags: tags}, nil, false)

	parsed, err := ParseDeliverOrError(res)
	require.NoError(t, err)
	assert.Equal(t, []byte("150"), parsed.Data)
	assert.Equal(t, tags, parsed.Tags)

	res = DeliverOrError(nil, errors.Wrap(errors.ErrPaused, "vault"), false)
	_, err = ParseDeliverOrError(res)
	assert.True(t, errors.ErrPaused.Is(err))
}

func TestPanicDetailsAreRedacted(t *testing.T) {
	var err error
	func() {
		defer errors.Recover(&err)
		panic("private key material")
	}()

	res := DeliverTxError(err, false)
	assert.Equal(t, errors.ErrPanic.ABCICode(), res.Code)
	assert.NotContains(t, res.Log, "private key material")

	res = DeliverTxError(err, true)
	assert.Contains(t, res.Log, "private key material")
}
