package custodytest

import "github.com/callora/custody"

// Decorator counts its calls and either fails with CheckErr or
// DeliverErr, without calling the next handler, or passes through.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checks, delivers int
}

var _ custody.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Checker) (*custody.CheckResult, error) {
	d.checks++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx, next custody.Deliverer) (*custody.DeliverResult, error) {
	d.delivers++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }
func (d *Decorator) CallCount() int        { return d.checks + d.delivers }

// Decorate wraps h with a single decorator, for testing a decorator
// without building a whole application stack.
func Decorate(h custody.Handler, d custody.Decorator) custody.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   custody.Handler
	decorator custody.Decorator
}

func (d decorated) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
