package custodytest

import (
	"context"
	"testing"

	"github.com/callora/custody"
	"github.com/stretchr/testify/assert"
)

func TestAuthNoSigners(t *testing.T) {
	var a Auth

	assert.Nil(t, a.GetConditions(nil))
	assert.False(t, a.HasAddress(nil, NewCondition().Address()))
}

func TestAuthUsingSignerAndSigners(t *testing.T) {
	conds := []custody.Condition{
		NewCondition(),
		NewCondition(),
		NewCondition(),
	}

	a := Auth{
		Signer:  conds[2],
		Signers: conds[:2],
	}

	assert.Equal(t, conds, a.GetConditions(nil))
	for _, c := range conds {
		assert.True(t, a.HasAddress(nil, c.Address()))
	}
	assert.False(t, a.HasAddress(nil, NewCondition().Address()))
}

func TestCtxAuth(t *testing.T) {
	a := &CtxAuth{Key: "auth"}
	other := &CtxAuth{Key: "other"}
	c := NewCondition()

	ctx := a.SetConditions(context.Background(), c)

	assert.Equal(t, []custody.Condition{c}, a.GetConditions(ctx))
	assert.True(t, a.HasAddress(ctx, c.Address()))
	assert.Nil(t, other.GetConditions(ctx))
	assert.False(t, other.HasAddress(ctx, c.Address()))
}
