package utils

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
)

// Recovery converts a panic further down the stack into an ErrPanic
// result, so a faulty handler fails one transaction instead of the node.
type Recovery struct{}

var _ custody.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Checker) (res *custody.CheckResult, err error) {
	defer errors.Recover(&err)
	return next.Check(ctx, store, tx)
}

func (Recovery) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx, next custody.Deliverer) (res *custody.DeliverResult, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, tx)
}
