package app

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Querier is the query half of an abci application. Both an in-process
// application and a remote client implement it.
type Querier interface {
	Query(abci.RequestQuery) abci.ResponseQuery
}

// ABCIStore exposes the abci.Query interface as a ReadOnlyKVStore. The
// application must register the raw store query under "/".
type ABCIStore struct {
	app Querier
}

var _ custody.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app Querier) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get will query for exactly one value over the abci store.
// This can be wrapped with a bucket to reuse key/index/parse logic
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.Wrap(errors.ErrDatabase, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidType, err.Error())
	}
	if len(value.Results) == 0 {
		return nil, nil
	}
	return value.Results[0], nil
}

// Has returns true if the given key in in the abci app store
func (a *ABCIStore) Has(key []byte) (bool, error) {
	v, err := a.Get(key)
	return len(v) > 0, err
}

// Iterator does a prefix iteration over the store. Only an open end or the
// end of a prefix range is supported.
func (a *ABCIStore) Iterator(start, end []byte) (custody.Iterator, error) {
	models, err := a.prefixQuery(start, end)
	if err != nil {
		return nil, err
	}
	return store.NewSliceIterator(models), nil
}

// ReverseIterator is the descending variant of Iterator.
func (a *ABCIStore) ReverseIterator(start, end []byte) (custody.Iterator, error) {
	models, err := a.prefixQuery(start, end)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) prefixQuery(start, end []byte) ([]custody.Model, error) {
	if end != nil && string(end) != string(prefixEnd(start)) {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "only prefix ranges are supported")
	}
	query := a.app.Query(abci.RequestQuery{
		Path: "/?prefix",
		Data: start,
	})
	if query.Code != 0 {
		return nil, errors.Wrap(errors.ErrDatabase, query.Log)
	}
	return toModels(query.Key, query.Value)
}

func toModels(keys, values []byte) ([]custody.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidType, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidType, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}

// prefixEnd returns the smallest key that is greater than every key
// starting with given prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for len(end) > 0 {
		if end[len(end)-1] != 0xff {
			end[len(end)-1]++
			return end
		}
		end = end[:len(end)-1]
	}
	return nil
}
