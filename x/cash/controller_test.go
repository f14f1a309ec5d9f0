package cash

import (
	"testing"

	"github.com/callora/custody/coin"
	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndTransfer(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	a := custodytest.RandomAddr(t)
	b := custodytest.RandomAddr(t)

	assertBalance := func(holder []byte, token string, want int64) {
		t.Helper()
		got, err := ctrl.Balance(db, token, holder)
		require.NoError(t, err)
		assert.Equal(t, coin.NewAmount(want).String(), got.String())
	}

	assertBalance(a, "USDC", 0)
	require.NoError(t, ctrl.Issue(db, "USDC", a, coin.NewAmount(1000)))
	require.NoError(t, ctrl.Issue(db, "EUR", a, coin.NewAmount(5)))
	assertBalance(a, "USDC", 1000)
	assertBalance(a, "EUR", 5)

	require.NoError(t, ctrl.Transfer(db, "USDC", a, b, coin.NewAmount(400)))
	assertBalance(a, "USDC", 600)
	assertBalance(b, "USDC", 400)
	assertBalance(b, "EUR", 0)

	err := ctrl.Transfer(db, "USDC", a, b, coin.NewAmount(700))
	assert.True(t, errors.ErrInsufficientBalance.Is(err))
	assertBalance(a, "USDC", 600)
	assertBalance(b, "USDC", 400)

	err = ctrl.Transfer(db, "USDC", a, b, coin.NewAmount(0))
	assert.True(t, errors.ErrInvalidAmount.Is(err))
	err = ctrl.Transfer(db, "USDC", a, b, coin.NewAmount(-1))
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	// Sending to self changes nothing.
	require.NoError(t, ctrl.Transfer(db, "USDC", a, a, coin.NewAmount(600)))
	assertBalance(a, "USDC", 600)

	err = ctrl.Issue(db, "USDC", a, coin.NewAmount(-5))
	assert.True(t, errors.ErrInvalidAmount.Is(err))

	_, err = ctrl.Balance(db, "usdc", a)
	assert.True(t, errors.ErrInvalidArgument.Is(err))
}

func TestIssueOverflow(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController(NewBucket())
	a := custodytest.RandomAddr(t)
	b := custodytest.RandomAddr(t)

	require.NoError(t, ctrl.Issue(db, "USDC", a, coin.MaxAmount()))
	err := ctrl.Issue(db, "USDC", a, coin.NewAmount(1))
	assert.True(t, errors.ErrOverflow.Is(err))

	require.NoError(t, ctrl.Issue(db, "USDC", b, coin.NewAmount(1)))
	err = ctrl.Transfer(db, "USDC", b, a, coin.NewAmount(1))
	assert.True(t, errors.ErrOverflow.Is(err))

	got, err := ctrl.Balance(db, "USDC", b)
	require.NoError(t, err)
	assert.Equal(t, "1", got.String())
}
