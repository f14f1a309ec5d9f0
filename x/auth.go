package x

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
)

// Authenticator reports who signed the transaction being processed.
// Handlers receive it in their constructor, the application passes the
// signature authenticator of x/sigs and tests pass a mock.
type Authenticator interface {
	GetConditions(custody.Context) []custody.Condition
	HasAddress(custody.Context, custody.Address) bool
}

// MultiAuth accepts a condition proven by any of its authenticators.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

func (m MultiAuth) GetConditions(ctx custody.Context) []custody.Condition {
	var res []custody.Condition
	for _, impl := range m.impls {
		add := impl.GetConditions(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

func (m MultiAuth) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// Authenticate returns ErrUnauthenticated unless the caller address signed
// the transaction currently processed.
func Authenticate(ctx custody.Context, auth Authenticator, caller custody.Address) error {
	if err := caller.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthenticated, "invalid caller address")
	}
	if !auth.HasAddress(ctx, caller) {
		return errors.Wrapf(errors.ErrUnauthenticated, "caller %s did not sign", caller)
	}
	return nil
}

// RequireRole returns ErrUnauthorized unless the caller is the address
// holding the expected role.
func RequireRole(caller, expected custody.Address) error {
	if expected == nil || !caller.Equals(expected) {
		return errors.Wrapf(errors.ErrUnauthorized, "caller %s does not hold the role", caller)
	}
	return nil
}

// RequireOneOf returns ErrUnauthorized unless the caller is one of the
// candidates.
func RequireOneOf(caller custody.Address, candidates ...custody.Address) error {
	for _, c := range candidates {
		if c != nil && caller.Equals(c) {
			return nil
		}
	}
	return errors.Wrapf(errors.ErrUnauthorized, "caller %s holds none of the roles", caller)
}
