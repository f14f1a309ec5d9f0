/*
Package app links together all the various components
to construct the custodyd application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/callora/custody"
	"github.com/callora/custody/app"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
	"github.com/callora/custody/store/iavl"
	"github.com/callora/custody/x"
	"github.com/callora/custody/x/cash"
	"github.com/callora/custody/x/revpool"
	"github.com/callora/custody/x/settlement"
	"github.com/callora/custody/x/sigs"
	"github.com/callora/custody/x/utils"
	"github.com/callora/custody/x/vault"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the abci Info call.
const Name = "custodyd"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery.
func Chain(reg prometheus.Registerer) (app.Decorators, error) {
	metrics, err := utils.NewMetrics(reg)
	if err != nil {
		return app.Decorators{}, err
	}
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	), nil
}

// Router returns a router dispatching to the handlers of all extensions.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, ctrl)
	vault.RegisterRoutes(r, authFn, ctrl)
	settlement.RegisterRoutes(r, authFn)
	revpool.RegisterRoutes(r, authFn, ctrl)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/", "/auth", "/wallets", "/vaults", "/vaultprices",
// "/vaultoffers", "/settlements", "/devbalances" and "/revpools"
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		orm.RegisterRawQuery,
		sigs.RegisterQuery,
		cash.RegisterQuery,
		vault.RegisterQuery,
		settlement.RegisterQuery,
		revpool.RegisterQuery,
	)
	return r
}

// Initializers returns the genesis loaders of all extensions.
func Initializers() custody.Initializer {
	return custody.ChainInitializers(
		cash.Initializer{},
		vault.Initializer{},
		revpool.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(reg prometheus.Registerer) (custody.Handler, error) {
	authFn := Authenticator()
	chain, err := Chain(reg)
	if err != nil {
		return nil, err
	}
	return chain.WithHandler(Router(authFn)), nil
}

// Options configures Application.
type Options struct {
	// DBPath is where the state is stored. Empty keeps the state in
	// memory.
	DBPath string
	// Store replaces the store opened at DBPath. The caller owns it.
	Store custody.CommitKVStore
	// Logger is used by the application and all handlers.
	Logger log.Logger
	// Registerer collects the transaction metrics.
	Registerer prometheus.Registerer
	// Sink receives the events of every committed block. Optional.
	Sink app.EventSink
	// Debug reveals full error details in responses.
	Debug bool
}

// Application constructs a basic ABCI application with
// the given options.
func Application(opts Options) (*app.BaseApp, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}
	if opts.Registerer == nil {
		opts.Registerer = prometheus.NewRegistry()
	}

	stack, err := Stack(opts.Registerer)
	if err != nil {
		return nil, err
	}
	kv := opts.Store
	if kv == nil {
		if kv, err = CommitKVStore(opts.DBPath); err != nil {
			return nil, err
		}
	}
	store, err := app.NewStoreApp(Name, kv, QueryRouter(), context.Background())
	if err != nil {
		return nil, err
	}
	store.WithInit(Initializers()).WithLogger(opts.Logger)
	base := app.NewBaseApp(store, TxDecoder, stack, opts.Debug)
	if opts.Sink != nil {
		base.WithEventSink(opts.Sink)
	}
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (custody.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
