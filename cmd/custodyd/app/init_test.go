package app

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/crypto"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/journal"
	"github.com/callora/custody/store/iavl"
	"github.com/callora/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

func TestGenInitOptions(t *testing.T) {
	addr := crypto.GenPrivKeyEd25519().PublicKey().Address()

	raw, err := GenInitOptions([]string{"EUR", addr.String()})
	require.NoError(t, err)

	var opts custody.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	var accts []cash.GenesisAccount
	require.NoError(t, opts.ReadOptions("cash", &accts))
	require.Len(t, accts, 1)
	assert.Equal(t, addr, accts[0].Address)
	assert.Equal(t, "EUR", accts[0].Coins[0].Ticker)

	// The generated state must be accepted by the application.
	application, err := Application(Options{})
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{ChainId: testChainID, AppStateBytes: raw})
	application.Commit()
}

func TestGenInitOptionsInvalidTicker(t *testing.T) {
	_, err := GenInitOptions([]string{"eur"})
	assert.True(t, errors.ErrInvalidArgument.Is(err))
}

func TestGenerateAppReleasesFiles(t *testing.T) {
	home := t.TempDir()
	application, closer, err := GenerateApp(home, log.NewNopLogger(), false)
	require.NoError(t, err)
	require.NotNil(t, application)
	require.NoError(t, closer.Close())

	// Both files can be opened again once their locks are released.
	j, err := journal.Open(filepath.Join(home, JournalName))
	require.NoError(t, err)
	require.NoError(t, j.Close())

	kv, err := CommitKVStore(filepath.Join(home, DBName))
	require.NoError(t, err)
	kv.(iavl.CommitStore).Close()
}
