package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState custody.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis

	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrNotFound, "read genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidArgument, "unmarshal genesis file: %s", err)
	}
	if !custody.IsValidChainID(gen.ChainID) {
		return gen, errors.Wrapf(errors.ErrInvalidArgument, "chain id: %q", gen.ChainID)
	}
	return gen, nil
}

// AppStateBytes returns the serialized application state, as tendermint
// passes it to InitChain.
func (g Genesis) AppStateBytes() ([]byte, error) {
	if g.AppState == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(g.AppState)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	return raw, nil
}
