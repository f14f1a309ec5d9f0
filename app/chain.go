package app

import (
	"reflect"

	"github.com/callora/custody"
)

// Decorators is an ordered decorator stack waiting for its final handler.
// The first decorator runs first:
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//	).WithHandler(router)
type Decorators struct {
	chain []custody.Decorator
}

func ChainDecorators(chain ...custody.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a new stack with chain appended. Nil decorators, which
// are how optional features such as metrics are left out, are skipped.
func (d Decorators) Chain(chain ...custody.Decorator) Decorators {
	next := make([]custody.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dec := range chain {
		if !isNil(dec) {
			next = append(next, dec)
		}
	}
	return Decorators{chain: next}
}

func isNil(dec custody.Decorator) bool {
	if dec == nil {
		return true
	}
	v := reflect.ValueOf(dec)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack over h.
func (d Decorators) WithHandler(h custody.Handler) custody.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step runs one decorator around the rest of the stack.
type step struct {
	d    custody.Decorator
	next custody.Handler
}

var _ custody.Handler = step{}

func (s step) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
