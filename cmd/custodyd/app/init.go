package app

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/crypto"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/journal"
	"github.com/callora/custody/x/cash"
	"github.com/callora/custody/x/revpool"
	"github.com/callora/custody/x/vault"
	"github.com/prometheus/client_golang/prometheus"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	// DBName is the state database file under the home directory.
	DBName = "custody.db"
	// JournalName is the event journal file under the home directory.
	JournalName = "events.db"

	defaultTicker = "USDC"
)

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode.
//
// Optional arguments are the token ticker and the hex address of the
// funded account. Without an address a new key is generated.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := defaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrInvalidArgument, "invalid ticker %s", ticker)
		}
	}

	var addr custody.Address
	if len(args) > 1 {
		var err error
		if addr, err = custody.ParseAddress(args[1]); err != nil {
			return nil, err
		}
	} else {
		key := crypto.GenPrivKeyEd25519()
		addr = key.PublicKey().Address()
		fmt.Printf("generated key: %X\n", key.Ed25519)
	}

	state := map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: addr, Coins: []coin.Coin{coin.NewCoin(123456789, ticker)}},
		},
		"conf": map[string]interface{}{
			"vault":   vault.DefaultConfiguration(),
			"revpool": revpool.DefaultConfiguration(),
		},
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	return raw, nil
}

// GenerateApp is used to create a stub for server/start.go command.
// Closing the returned closer releases the state database and the event
// journal.
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, io.Closer, error) {
	kv, err := CommitKVStore(filepath.Join(home, DBName))
	if err != nil {
		return nil, nil, err
	}
	files := closers{closeStore(kv)}
	j, err := journal.Open(filepath.Join(home, JournalName))
	if err != nil {
		files.Close()
		return nil, nil, err
	}
	files = append(files, j.Close)

	application, err := Application(Options{
		Store:      kv,
		Logger:     logger,
		Registerer: prometheus.DefaultRegisterer,
		Sink:       j,
		Debug:      debug,
	})
	if err != nil {
		files.Close()
		return nil, nil, err
	}
	return application, files, nil
}

// closers releases resources in the reverse order they were opened and
// returns the first failure.
type closers []func() error

func (c closers) Close() error {
	var first error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func closeStore(kv custody.CommitKVStore) func() error {
	return func() error {
		if c, ok := kv.(interface{ Close() }); ok {
			c.Close()
		}
		return nil
	}
}
