package sigs

import (
	"github.com/callora/custody/errors"
)

// ErrInvalidSequence is returned when a signature carries a sequence that
// does not match the signer's current one.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
