package app

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/callora/custody"
	"github.com/callora/custody/app"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/crypto"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/journal"
	"github.com/callora/custody/x/cash"
	"github.com/callora/custody/x/revpool"
	"github.com/callora/custody/x/sigs"
	"github.com/callora/custody/x/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const testChainID = "test-chain-1"

type account struct {
	key *crypto.PrivateKey
	seq int64
}

func newAccount() *account {
	return &account{key: crypto.GenPrivKeyEd25519()}
}

func (a *account) addr() custody.Address {
	return a.key.PublicKey().Address()
}

// signed returns the encoded transaction carrying msg, signed with the next
// sequence of the account.
func (a *account) signed(t *testing.T, msg custody.Msg) []byte {
	t.Helper()
	tx := &Tx{Msg: msg}
	sig, err := sigs.SignTx(a.key, tx, testChainID, a.seq)
	require.NoError(t, err)
	a.seq++
	tx.Signatures = []*sigs.StdSignature{sig}
	bz, err := tx.Marshal()
	require.NoError(t, err)
	return bz
}

func genesis(t *testing.T, funded custody.Address, amount int64) []byte {
	t.Helper()
	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: funded, Coins: []coin.Coin{coin.NewCoin(amount, "USDC")}},
		},
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	return raw
}

func TestApplicationLifecycle(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), JournalName))
	require.NoError(t, err)
	defer j.Close()

	application, err := Application(Options{Sink: j})
	require.NoError(t, err)

	var (
		owner = newAccount()
		admin = newAccount()
		dev   = newAccount()

		vaultID = []byte("vault-1")
		poolID  = []byte("pool-1")
	)

	application.InitChain(abci.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: genesis(t, admin.addr(), 1000),
	})
	application.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: 1, Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
	})

	deliver := func(bz []byte) abci.ResponseDeliverTx {
		t.Helper()
		res := application.DeliverTx(bz)
		require.Equal(t, uint32(0), res.Code, res.Log)
		return res
	}

	initTx := owner.signed(t, &vault.InitMsg{
		Instance:       vaultID,
		Owner:          owner.addr(),
		InitialBalance: coin.NewAmount(100),
	})
	chres := application.CheckTx(initTx)
	require.Equal(t, uint32(0), chres.Code, chres.Log)
	deliver(initTx)

	res := deliver(owner.signed(t, &vault.DepositMsg{
		Instance: vaultID,
		Caller:   owner.addr(),
		Amount:   coin.NewAmount(50),
	}))
	assert.Equal(t, "150", string(res.Data))

	res = deliver(owner.signed(t, &vault.DeductMsg{
		Instance:  vaultID,
		Caller:    owner.addr(),
		Amount:    coin.NewAmount(30),
		RequestID: "req-1",
	}))
	assert.Equal(t, "120", string(res.Data))

	// Overdraft is rejected and the balance is untouched.
	bad := application.DeliverTx(owner.signed(t, &vault.DeductMsg{
		Instance: vaultID,
		Caller:   owner.addr(),
		Amount:   coin.NewAmount(500),
	}))
	assert.Equal(t, errors.ErrInsufficientBalance.ABCICode(), bad.Code)

	// The caller must sign the deduction.
	bad = application.DeliverTx(dev.signed(t, &vault.DeductMsg{
		Instance: vaultID,
		Caller:   owner.addr(),
		Amount:   coin.NewAmount(1),
	}))
	assert.Equal(t, errors.ErrUnauthenticated.ABCICode(), bad.Code)

	res = deliver(admin.signed(t, &revpool.InitMsg{
		Instance: poolID,
		Admin:    admin.addr(),
		Token:    "USDC",
	}))
	custodyAddr := custody.Address(res.Data)
	assert.Equal(t, revpool.CustodyAddress(poolID), custodyAddr)

	deliver(admin.signed(t, &cash.SendMsg{
		Source:      admin.addr(),
		Destination: custodyAddr,
		Token:       "USDC",
		Amount:      coin.NewAmount(400),
	}))
	deliver(admin.signed(t, &revpool.DistributeMsg{
		Instance: poolID,
		Caller:   admin.addr(),
		To:       dev.addr(),
		Amount:   coin.NewAmount(250),
	}))

	bad = application.DeliverTx(admin.signed(t, &revpool.DistributeMsg{
		Instance: poolID,
		Caller:   admin.addr(),
		To:       dev.addr(),
		Amount:   coin.NewAmount(1000),
	}))
	assert.Equal(t, errors.ErrInsufficientBalance.ABCICode(), bad.Code)

	application.EndBlock(abci.RequestEndBlock{Height: 1})
	cres := application.Commit()
	assert.NotEmpty(t, cres.Data)

	kv := app.NewABCIStore(application)
	balance, err := vault.Balance(kv, vaultID)
	require.NoError(t, err)
	assert.Equal(t, "120", balance.String())

	ctrl := cash.NewController(cash.NewBucket())
	assertBalance(t, ctrl, kv, admin.addr(), "600")
	assertBalance(t, ctrl, kv, dev.addr(), "250")
	held, err := revpool.Balance(kv, ctrl, poolID)
	require.NoError(t, err)
	assert.Equal(t, "150", held.String())

	seq, err := sigs.NextSequence(kv, *owner.key.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, owner.seq, seq)

	var names []string
	err = j.Iterate(0, func(r journal.Record) error {
		assert.Equal(t, int64(1), r.Height)
		names = append(names, r.Name)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, names, vault.EventInit)
	assert.Contains(t, names, vault.EventDeposit)
	assert.Contains(t, names, vault.EventDeduct)
	assert.Contains(t, names, revpool.EventDistribute)
}

func assertBalance(t *testing.T, ctrl cash.Controller, kv custody.ReadOnlyKVStore, addr custody.Address, want string) {
	t.Helper()
	got, err := ctrl.Balance(kv, "USDC", addr)
	require.NoError(t, err)
	assert.Equal(t, want, got.String(), addr.String())
}

func TestApplicationRejectsReplay(t *testing.T) {
	application, err := Application(Options{})
	require.NoError(t, err)

	owner := newAccount()
	application.InitChain(abci.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: []byte(`{}`),
	})
	application.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	tx := owner.signed(t, &vault.InitMsg{Instance: []byte("v"), Owner: owner.addr()})
	res := application.DeliverTx(tx)
	require.Equal(t, uint32(0), res.Code, res.Log)

	res = application.DeliverTx(tx)
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res.Code)
}

func TestApplicationRejectsUnsigned(t *testing.T) {
	application, err := Application(Options{})
	require.NoError(t, err)

	application.InitChain(abci.RequestInitChain{
		ChainId:       testChainID,
		AppStateBytes: []byte(`{}`),
	})
	application.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	owner := newAccount()
	tx := &Tx{Msg: &vault.InitMsg{Instance: []byte("v"), Owner: owner.addr()}}
	bz, err := tx.Marshal()
	require.NoError(t, err)

	res := application.DeliverTx(bz)
	assert.Equal(t, errors.ErrUnauthenticated.ABCICode(), res.Code)
}

func TestQueryPaths(t *testing.T) {
	want := []string{
		"/",
		"/auth",
		"/devbalances",
		"/revpools",
		"/settlements",
		"/vaultoffers",
		"/vaultprices",
		"/vaults",
		"/wallets",
	}
	assert.Equal(t, want, QueryRouter().Paths())
}

func TestBatchDistributeRollsBack(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), JournalName))
	require.NoError(t, err)
	defer j.Close()

	application, err := Application(Options{Sink: j})
	require.NoError(t, err)

	admin := newAccount()
	first := newAccount()
	full := newAccount()
	poolID := []byte("pool-1")

	state, err := json.Marshal(map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: admin.addr(), Coins: []coin.Coin{coin.NewCoin(1000, "USDC")}},
			{Address: full.addr(), Coins: []coin.Coin{{Ticker: "USDC", Amount: coin.MaxAmount()}}},
		},
	})
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: state})
	application.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{Height: 1}})

	deliver := func(bz []byte) abci.ResponseDeliverTx {
		t.Helper()
		res := application.DeliverTx(bz)
		require.Equal(t, uint32(0), res.Code, res.Log)
		return res
	}
	deliver(admin.signed(t, &revpool.InitMsg{Instance: poolID, Admin: admin.addr(), Token: "USDC"}))
	deliver(admin.signed(t, &cash.SendMsg{
		Source:      admin.addr(),
		Destination: revpool.CustodyAddress(poolID),
		Token:       "USDC",
		Amount:      coin.NewAmount(400),
	}))

	// The first payment succeeds inside the handler, the second overflows
	// the recipient wallet.
	res := application.DeliverTx(admin.signed(t, &revpool.BatchDistributeMsg{
		Instance: poolID,
		Caller:   admin.addr(),
		Payments: []revpool.Payment{
			{To: first.addr(), Amount: coin.NewAmount(100)},
			{To: full.addr(), Amount: coin.NewAmount(100)},
		},
	}))
	assert.Equal(t, errors.ErrOverflow.ABCICode(), res.Code, res.Log)
	assert.Empty(t, res.Tags)

	application.EndBlock(abci.RequestEndBlock{Height: 1})
	application.Commit()

	kv := app.NewABCIStore(application)
	ctrl := cash.NewController(cash.NewBucket())
	held, err := revpool.Balance(kv, ctrl, poolID)
	require.NoError(t, err)
	assert.Equal(t, "400", held.String())
	assertBalance(t, ctrl, kv, first.addr(), "0")
	assertBalance(t, ctrl, kv, full.addr(), coin.MaxAmount().String())

	err = j.Iterate(0, func(r journal.Record) error {
		assert.NotEqual(t, revpool.EventDistribute, r.Name)
		return nil
	})
	require.NoError(t, err)
}
