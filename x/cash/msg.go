package cash

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
)

const maxMemoSize int = 128

// SendMsg moves tokens from the signing source to a destination.
type SendMsg struct {
	Source      custody.Address `json:"source"`
	Destination custody.Address `json:"destination"`
	Token       string          `json:"token"`
	Amount      coin.Amount     `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

var _ custody.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	if !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive SendMsg: %s", m.Amount)
	}
	if !coin.IsCC(m.Token) {
		return errors.Field("Token", errors.ErrInvalidArgument, "invalid token %q", m.Token)
	}
	if err := m.Source.Validate(); err != nil {
		return errors.Field("Source", err, "invalid source")
	}
	if err := m.Destination.Validate(); err != nil {
		return errors.Field("Destination", err, "invalid destination")
	}
	if len(m.Memo) > maxMemoSize {
		return errors.Field("Memo", errors.ErrInvalidArgument, "memo too long")
	}
	return nil
}
