package coin

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/callora/custody/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a single token.
type Coin struct {
	Ticker string
	Amount Amount
}

// NewCoin creates a new coin object
func NewCoin(amount int64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: NewAmount(amount),
	}
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Validate requires a well formed ticker and a non negative amount.
func (c Coin) Validate() error {
	if !IsCC(c.Ticker) {
		return errors.Wrapf(errors.ErrInvalidArgument, "invalid ticker %q", c.Ticker)
	}
	if c.Amount.IsNegative() {
		return errors.Wrap(errors.ErrInvalidAmount, "negative coin")
	}
	return nil
}

// String provides a human readable representation of the coin that can be
// parsed back with ParseHumanFormat.
func (c Coin) String() string {
	if c.Ticker == "" {
		return c.Amount.String()
	}
	return c.Amount.String() + " " + c.Ticker
}

var humanCoinFormatRx = regexp.MustCompile(`^(\-?\d+)\s*([A-Z]{3,4})$`)

// ParseHumanFormat parse a human readable coin representation. Accepted format
// is a string:
//
//	"<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	results := humanCoinFormatRx.FindStringSubmatch(h)
	if len(results) != 3 {
		return Coin{}, errors.Wrapf(errors.ErrInvalidArgument, "invalid coin format %q", h)
	}
	amount, err := ParseAmount(results[1])
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: results[2], Amount: amount}, nil
}

// UnmarshalJSON accepts the human readable format as well as an object
// with ticker and amount fields.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Fallback into the default unmarhaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Ticker string
		Amount Amount
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return errors.Wrap(errors.ErrInvalidArgument, fmt.Sprintf("cannot decode coin: %s", err))
	}
	c.Ticker = coin.Ticker
	c.Amount = coin.Amount
	return nil
}

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}
