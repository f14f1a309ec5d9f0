package app

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	amino "github.com/tendermint/go-amino"
)

// ResultSet holds the keys or the values returned by a query.
type ResultSet struct {
	Results [][]byte `json:"results"`
}

var _ custody.Persistent = (*ResultSet)(nil)

func (r *ResultSet) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(r)
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	// An empty set is serialized to no bytes at all.
	if len(raw) == 0 {
		*r = ResultSet{}
		return nil
	}
	return amino.UnmarshalBinaryBare(raw, r)
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []custody.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]custody.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInvalidState, "mismatched result set size: %d keys, %d values", len(kref), len(vref))
	}
	mods := make([]custody.Model, len(kref))
	for i := range mods {
		mods[i] = custody.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o.
// ErrNotFound is returned for an empty result set.
func UnmarshalOneResult(bz []byte, o custody.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(errors.ErrInvalidType, err.Error())
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}
