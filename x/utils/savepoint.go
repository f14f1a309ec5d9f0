package utils

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
)

// Savepoint runs the rest of the chain on a cache of the store. The cache
// is written only when the chain succeeds, so a failed vault deduction or
// distribution leaves no partial state and no events behind.
//
// The zero value is disabled. Enable it with OnCheck and OnDeliver.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ custody.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	return isolate(store, func(db custody.KVStore) (*custody.CheckResult, error) {
		return next.Check(ctx, db, tx)
	})
}

func (s Savepoint) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	return isolate(store, func(db custody.KVStore) (*custody.DeliverResult, error) {
		return next.Deliver(ctx, db, tx)
	})
}

// isolate calls fn on a cache wrap of store. A store that cannot be
// cache wrapped is passed through unchanged.
func isolate[T any](store custody.KVStore, fn func(custody.KVStore) (*T, error)) (*T, error) {
	cacheable, ok := store.(custody.CacheableKVStore)
	if !ok {
		return fn(store)
	}
	cache := cacheable.CacheWrap()
	res, err := fn(cache)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
