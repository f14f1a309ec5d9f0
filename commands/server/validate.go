package server

import (
	"github.com/callora/custody"
	"github.com/callora/custody/app"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
)

// ValidateGenesis loads every given genesis file into a throw-away store
// and returns the first failure.
func ValidateGenesis(ini custody.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no genesis file given")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini custody.Initializer, genesisPath string) error {
	genesis, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if genesis.AppState == nil {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}

	// Use in memory store because we want to discard the result.
	db := store.MemStore()

	if err := ini.FromGenesis(genesis.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
