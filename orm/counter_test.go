package orm

import (
	"github.com/callora/custody/errors"
	amino "github.com/tendermint/go-amino"
)

// Counter is a minimal model used across the package tests.
type Counter struct {
	Count int64
}

var _ Model = (*Counter)(nil)

func NewCounter(count int64) *Counter {
	return &Counter{Count: count}
}

func (c *Counter) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(c)
}

func (c *Counter) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, c)
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInvalidState, "negative counter")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}

// Label is a second model type, used to check type safety.
type Label struct {
	Text string
}

var _ Model = (*Label)(nil)

func (l *Label) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(l)
}

func (l *Label) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, l)
}

func (l *Label) Validate() error {
	if l.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

func (l *Label) Copy() CloneableData {
	return &Label{Text: l.Text}
}
