package vault

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/gconf"
	amino "github.com/tendermint/go-amino"
)

const (
	configPkg = "vault"

	// Defaults used when the genesis does not configure the vault
	// extension.
	DefaultMaxMetadataLength = 256
	DefaultMaxBatchSize      = 100
)

// Configuration holds the tunables of the vault extension.
type Configuration struct {
	MaxMetadataLength int64 `json:"max_metadata_length"`
	MaxBatchSize      int64 `json:"max_batch_size"`
}

var _ gconf.Configuration = (*Configuration)(nil)

// DefaultConfiguration returns the configuration used when none is stored.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		MaxMetadataLength: DefaultMaxMetadataLength,
		MaxBatchSize:      DefaultMaxBatchSize,
	}
}

func (c *Configuration) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, c)
}

func (c *Configuration) Validate() error {
	if c.MaxMetadataLength <= 0 {
		return errors.Field("MaxMetadataLength", errors.ErrInvalidState, "must be positive")
	}
	if c.MaxBatchSize <= 0 {
		return errors.Field("MaxBatchSize", errors.ErrInvalidState, "must be positive")
	}
	return nil
}

func loadConfig(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.LoadOrDefault(db, configPkg, &conf, DefaultConfiguration()); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// Initializer stores the vault configuration found in the genesis file,
// or the default one.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	return gconf.InitConfigOrDefault(db, opts, configPkg, &Configuration{}, DefaultConfiguration())
}
