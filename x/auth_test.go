package x

import (
	"context"
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	a := custodytest.NewCondition()
	b := custodytest.NewCondition()
	c := custodytest.NewCondition()

	ctx1 := &custodytest.CtxAuth{Key: "foo"}
	ctx2 := &custodytest.CtxAuth{Key: "bar"}

	cases := map[string]struct {
		ctx          custody.Context
		auth         Authenticator
		wantInCtx    custody.Condition
		wantNotInCtx custody.Condition
		wantAll      []custody.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{},
			wantNotInCtx: b,
		},
		"signer a": {
			ctx:          context.Background(),
			auth:         &custodytest.Auth{Signer: a},
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []custody.Condition{a},
		},
		"signer b": {
			ctx: context.Background(),
			auth: ChainAuth(
				&custodytest.Auth{Signer: b},
				&custodytest.Auth{Signer: a}),
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{b, a},
		},
		"ctxAuth checks what is set by same key": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx1,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{a, b},
		},
		"ctxAuth with different key sees nothing": {
			ctx:          ctx1.SetConditions(context.Background(), a, b),
			auth:         ctx2,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantInCtx != nil {
				assert.True(t, tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()))
			}
			assert.False(t, tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()))

			all := tc.auth.GetConditions(tc.ctx)
			assert.Equal(t, tc.wantAll, all)
			for _, c := range all {
				assert.True(t, tc.auth.HasAddress(tc.ctx, c.Address()))
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	signer := custodytest.NewCondition()
	stranger := custodytest.NewCondition()
	auth := &custodytest.Auth{Signer: signer}

	cases := map[string]struct {
		caller  custody.Address
		wantErr *errors.Error
	}{
		"signer": {
			caller: signer.Address(),
		},
		"someone else": {
			caller:  stranger.Address(),
			wantErr: errors.ErrUnauthenticated,
		},
		"missing caller": {
			caller:  nil,
			wantErr: errors.ErrUnauthenticated,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := Authenticate(context.Background(), auth, tc.caller)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)
		})
	}
}

func TestRoles(t *testing.T) {
	owner := custodytest.RandomAddr(t)
	admin := custodytest.RandomAddr(t)
	other := custodytest.RandomAddr(t)

	assert.NoError(t, RequireRole(owner, owner))
	assert.True(t, errors.ErrUnauthorized.Is(RequireRole(other, owner)))
	assert.True(t, errors.ErrUnauthorized.Is(RequireRole(other, nil)))

	assert.NoError(t, RequireOneOf(admin, owner, admin))
	assert.True(t, errors.ErrUnauthorized.Is(RequireOneOf(other, owner, admin)))
	assert.True(t, errors.ErrUnauthorized.Is(RequireOneOf(other)))
	assert.True(t, errors.ErrUnauthorized.Is(RequireOneOf(nil, nil)))
}
