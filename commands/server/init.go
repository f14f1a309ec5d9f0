package server

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/callora/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const flagForce = "force"

// GenOptions can parse command-line and flag to
// generate default app_options for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the application state to the genesis file that
// `tendermint init` created under home. An existing app_state is only
// replaced when -force is given.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	initFlags := flag.NewFlagSet("init", flag.ContinueOnError)
	force := initFlags.Bool(flagForce, false, "overwrite an existing app_state")
	if err := initFlags.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}

	genFile := GenesisPath(home)
	options, err := gen(initFlags.Args())
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options, *force); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

// GenesisPath returns where tendermint keeps the genesis file in home.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage, force bool) error {
	bz, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrNotFound, "genesis file: %s", err)
	}

	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "genesis file: %s", err)
	}

	if current, ok := doc["app_state"]; ok && !force && !isEmptyState(current) {
		return errors.Wrap(errors.ErrAlreadyInitialized, "genesis has an app_state, use -force to replace it")
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	return os.WriteFile(filename, out, 0600)
}

func isEmptyState(raw json.RawMessage) bool {
	var state map[string]json.RawMessage
	if err := json.Unmarshal(raw, &state); err != nil {
		return string(raw) == "null" || string(raw) == `""`
	}
	return len(state) == 0
}
