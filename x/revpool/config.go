package revpool

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/gconf"
	amino "github.com/tendermint/go-amino"
)

const configPkg = "revpool"

// DefaultMaxBatchSize limits batch distributions when the genesis does not
// configure it.
const DefaultMaxBatchSize = 100

// Configuration holds the tunables of the revenue pool extension.
type Configuration struct {
	MaxBatchSize int64 `json:"max_batch_size"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, c)
}

func (c *Configuration) Validate() error {
	if c.MaxBatchSize <= 0 {
		return errors.Field("MaxBatchSize", errors.ErrInvalidState, "must be positive")
	}
	return nil
}

// DefaultConfiguration returns the configuration used when the genesis
// does not declare one.
func DefaultConfiguration() *Configuration {
	return &Configuration{MaxBatchSize: DefaultMaxBatchSize}
}

func loadConfig(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.LoadOrDefault(db, configPkg, &conf, DefaultConfiguration()); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// Initializer stores the revenue pool configuration.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	return gconf.InitConfigOrDefault(db, opts, configPkg, &Configuration{}, DefaultConfiguration())
}
