package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var instance = custodytest.SequenceID(7)

type fixture struct {
	t      *testing.T
	db     store.CacheableKVStore
	auth   *custodytest.Auth
	now    time.Time
	router map[string]custody.Handler
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{
		t:      t,
		db:     store.MemStore(),
		auth:   &custodytest.Auth{},
		now:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		router: make(map[string]custody.Handler),
	}
	RegisterRoutes(f, f.auth)
	return f
}

func (f *fixture) Handle(path string, h custody.Handler) {
	f.router[path] = h
}

func (f *fixture) deliver(msg custody.Msg, signers ...custody.Condition) (*custody.DeliverResult, error) {
	f.t.Helper()
	h, ok := f.router[msg.Path()]
	require.True(f.t, ok, "no handler for %s", msg.Path())

	f.auth.Signers = signers
	ctx := custody.WithBlockTime(context.Background(), f.now)
	tx := &custodytest.Tx{Msg: msg}
	if _, err := h.Check(ctx, f.db, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, f.db, tx)
}

func (f *fixture) mustDeliver(msg custody.Msg, signers ...custody.Condition) *custody.DeliverResult {
	f.t.Helper()
	res, err := f.deliver(msg, signers...)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) developerBalance(dev custody.Address) string {
	f.t.Helper()
	b, err := GetDeveloperBalance(f.db, instance, dev)
	require.NoError(f.t, err)
	return b.String()
}

func (f *fixture) pool() *GlobalPool {
	f.t.Helper()
	p, err := GetGlobalPool(f.db, instance)
	require.NoError(f.t, err)
	return p
}

func TestInit(t *testing.T) {
	admin := custodytest.NewCondition()
	vault := custodytest.RandomAddr(t)

	f := newFixture(t)

	_, err := GetGlobalPool(f.db, instance)
	require.True(t, errors.ErrNotInitialized.Is(err))
	_, err = GetAdmin(f.db, instance)
	require.True(t, errors.ErrNotInitialized.Is(err))

	_, err = f.deliver(&InitMsg{Instance: instance, Admin: admin.Address(), Vault: vault})
	require.True(t, errors.ErrUnauthenticated.Is(err))

	res := f.mustDeliver(&InitMsg{Instance: instance, Admin: admin.Address(), Vault: vault}, admin)
	require.Len(t, res.Events, 1)
	assert.Equal(t, []string{EventInit, admin.Address().String(), vault.String()}, res.Events[0].Topics())

	pool := f.pool()
	assert.True(t, pool.TotalBalance.IsZero())
	assert.Equal(t, custody.AsUnixTime(f.now), pool.LastUpdated)

	got, err := GetAdmin(f.db, instance)
	require.NoError(t, err)
	assert.Equal(t, admin.Address(), got)
	got, err = GetVault(f.db, instance)
	require.NoError(t, err)
	assert.Equal(t, vault, got)

	_, err = f.deliver(&InitMsg{Instance: instance, Admin: admin.Address(), Vault: vault}, admin)
	assert.True(t, errors.ErrAlreadyInitialized.Is(err))
}

func TestReceivePayment(t *testing.T) {
	admin := custodytest.NewCondition()
	vault := custodytest.NewCondition()
	stranger := custodytest.NewCondition()
	dev := custodytest.RandomAddr(t)

	cases := map[string]struct {
		signer     custody.Condition
		msg        *ReceivePaymentMsg
		wantErr    *errors.Error
		wantPool   string
		wantDev    string
		wantEvents []string
	}{
		"vault pays a developer": {
			signer:     vault,
			msg:        &ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(500), Developer: dev},
			wantPool:   "0",
			wantDev:    "500",
			wantEvents: []string{EventPaymentReceived, EventBalanceCredited},
		},
		"admin pays the pool": {
			signer:     admin,
			msg:        &ReceivePaymentMsg{Instance: instance, Caller: admin.Address(), Amount: coin.NewAmount(300), ToPool: true},
			wantPool:   "300",
			wantDev:    "0",
			wantEvents: []string{EventPaymentReceived},
		},
		"pool payment ignores the developer": {
			signer:     vault,
			msg:        &ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(300), ToPool: true, Developer: dev},
			wantPool:   "300",
			wantDev:    "0",
			wantEvents: []string{EventPaymentReceived},
		},
		"missing payee": {
			signer:   vault,
			msg:      &ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(10)},
			wantErr:  errors.ErrMissingPayee,
			wantPool: "0",
			wantDev:  "0",
		},
		"zero amount": {
			signer:   vault,
			msg:      &ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(0), ToPool: true},
			wantErr:  errors.ErrInvalidAmount,
			wantPool: "0",
			wantDev:  "0",
		},
		"stranger": {
			signer:   stranger,
			msg:      &ReceivePaymentMsg{Instance: instance, Caller: stranger.Address(), Amount: coin.NewAmount(10), ToPool: true},
			wantErr:  errors.ErrUnauthorized,
			wantPool: "0",
			wantDev:  "0",
		},
		"caller did not sign": {
			signer:   stranger,
			msg:      &ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(10), ToPool: true},
			wantErr:  errors.ErrUnauthenticated,
			wantPool: "0",
			wantDev:  "0",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			f.mustDeliver(&InitMsg{Instance: instance, Admin: admin.Address(), Vault: vault.Address()}, admin)
			f.now = f.now.Add(time.Hour)

			res, err := f.deliver(tc.msg, tc.signer)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "want %s, got %+v", tc.wantErr, err)
			} else {
				require.NoError(t, err)
				var names []string
				for _, e := range res.Events {
					names = append(names, e.Name)
				}
				assert.Equal(t, tc.wantEvents, names)
			}
			assert.Equal(t, tc.wantPool, f.pool().TotalBalance.String())
			assert.Equal(t, tc.wantDev, f.developerBalance(dev))
		})
	}
}

func TestPoolTimestamp(t *testing.T) {
	admin := custodytest.NewCondition()
	vault := custodytest.NewCondition()
	dev := custodytest.RandomAddr(t)

	f := newFixture(t)
	f.mustDeliver(&InitMsg{Instance: instance, Admin: admin.Address(), Vault: vault.Address()}, admin)
	created := custody.AsUnixTime(f.now)

	f.now = f.now.Add(time.Minute)
	f.mustDeliver(&ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(1), Developer: dev}, vault)
	assert.Equal(t, created, f.pool().LastUpdated, "developer payments leave the pool untouched")

	f.now = f.now.Add(time.Minute)
	f.mustDeliver(&ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(1), ToPool: true}, vault)
	assert.Equal(t, custody.AsUnixTime(f.now), f.pool().LastUpdated)
	assert.Equal(t, "1", f.developerBalance(dev))
}

func TestSetRoles(t *testing.T) {
	admin := custodytest.NewCondition()
	newAdmin := custodytest.NewCondition()
	vault := custodytest.NewCondition()
	newVault := custodytest.NewCondition()

	f := newFixture(t)
	f.mustDeliver(&InitMsg{Instance: instance, Admin: admin.Address(), Vault: vault.Address()}, admin)

	_, err := f.deliver(&SetVaultMsg{Instance: instance, Caller: vault.Address(), NewVault: newVault.Address()}, vault)
	require.True(t, errors.ErrUnauthorized.Is(err))

	f.mustDeliver(&SetVaultMsg{Instance: instance, Caller: admin.Address(), NewVault: newVault.Address()}, admin)
	_, err = f.deliver(&ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(1), ToPool: true}, vault)
	require.True(t, errors.ErrUnauthorized.Is(err))
	f.mustDeliver(&ReceivePaymentMsg{Instance: instance, Caller: newVault.Address(), Amount: coin.NewAmount(1), ToPool: true}, newVault)

	res := f.mustDeliver(&SetAdminMsg{Instance: instance, Caller: admin.Address(), NewAdmin: newAdmin.Address()}, admin)
	require.Len(t, res.Events, 1)
	assert.Equal(t, RoleChangedEvent{Old: admin.Address(), New: newAdmin.Address()}, res.Events[0].Data)

	_, err = f.deliver(&SetAdminMsg{Instance: instance, Caller: admin.Address(), NewAdmin: admin.Address()}, admin)
	require.True(t, errors.ErrUnauthorized.Is(err))
	got, err := GetAdmin(f.db, instance)
	require.NoError(t, err)
	assert.Equal(t, newAdmin.Address(), got)
}

func TestAllDeveloperBalances(t *testing.T) {
	admin := custodytest.NewCondition()
	vault := custodytest.NewCondition()
	devs := []custody.Address{custodytest.RandomAddr(t), custodytest.RandomAddr(t), custodytest.RandomAddr(t)}

	f := newFixture(t)
	f.mustDeliver(&InitMsg{Instance: instance, Admin: admin.Address(), Vault: vault.Address()}, admin)

	other := custodytest.SequenceID(8)
	f.mustDeliver(&InitMsg{Instance: other, Admin: admin.Address(), Vault: vault.Address()}, admin)
	f.mustDeliver(&ReceivePaymentMsg{Instance: other, Caller: vault.Address(), Amount: coin.NewAmount(99), Developer: devs[0]}, vault)

	want := make(map[string]string)
	for i, d := range devs {
		amount := int64(100 * (i + 1))
		f.mustDeliver(&ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(amount), Developer: d}, vault)
		f.mustDeliver(&ReceivePaymentMsg{Instance: instance, Caller: vault.Address(), Amount: coin.NewAmount(1), Developer: d}, vault)
		want[d.String()] = coin.NewAmount(amount + 1).String()
	}

	it, err := GetAllDeveloperBalances(f.db, instance)
	require.NoError(t, err)
	defer it.Release()

	got := make(map[string]string)
	for {
		b, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			break
		}
		require.NoError(t, err)
		got[b.Developer.String()] = b.Balance.String()
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "0", f.developerBalance(custodytest.RandomAddr(t)))
}
