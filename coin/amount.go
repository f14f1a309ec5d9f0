package coin

import (
	"encoding/json"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/callora/custody/errors"
)

var (
	// maxAmount is 2^127-1, the largest value an Amount can hold.
	maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	// minAmount is -2^127, the smallest value an Amount can hold.
	minAmount = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// Amount is a signed 128 bit integer. Any arithmetic that would leave the
// [-2^127, 2^127-1] range fails with errors.ErrOverflow instead of wrapping
// around.
//
// The zero value is a valid zero amount.
type Amount struct {
	i sdkmath.Int
}

// NewAmount returns an amount holding the given value.
func NewAmount(v int64) Amount {
	return Amount{i: sdkmath.NewInt(v)}
}

// ZeroAmount returns an amount of value zero.
func ZeroAmount() Amount {
	return Amount{i: sdkmath.ZeroInt()}
}

// MaxAmount returns the largest representable amount.
func MaxAmount() Amount {
	return Amount{i: sdkmath.NewIntFromBigInt(maxAmount)}
}

// MinAmount returns the smallest representable amount.
func MinAmount() Amount {
	return Amount{i: sdkmath.NewIntFromBigInt(minAmount)}
}

// NewAmountFromBig returns an amount holding the given value or an overflow
// error if the value cannot be represented on 128 bits.
func NewAmountFromBig(v *big.Int) (Amount, error) {
	if v == nil {
		return ZeroAmount(), nil
	}
	if v.Cmp(maxAmount) > 0 || v.Cmp(minAmount) < 0 {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s out of 128 bit range", v)
	}
	return Amount{i: sdkmath.NewIntFromBigInt(v)}, nil
}

// ParseAmount parses a base 10 integer representation.
func ParseAmount(s string) (Amount, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, errors.Wrapf(errors.ErrInvalidAmount, "cannot parse %q", s)
	}
	return NewAmountFromBig(v)
}

func (a Amount) val() sdkmath.Int {
	if a.i.IsNil() {
		return sdkmath.ZeroInt()
	}
	return a.i
}

// BigInt returns a copy of the amount as a big integer.
func (a Amount) BigInt() *big.Int {
	return a.val().BigInt()
}

// Int64 returns the amount as int64. The result is undefined when the value
// does not fit, check with IsInt64 first.
func (a Amount) Int64() int64 {
	return a.BigInt().Int64()
}

// IsInt64 returns true if the amount fits into an int64.
func (a Amount) IsInt64() bool {
	return a.BigInt().IsInt64()
}

// Add returns the sum of both amounts.
func (a Amount) Add(o Amount) (Amount, error) {
	sum := new(big.Int).Add(a.BigInt(), o.BigInt())
	return NewAmountFromBig(sum)
}

// Sub returns the difference of both amounts.
func (a Amount) Sub(o Amount) (Amount, error) {
	diff := new(big.Int).Sub(a.BigInt(), o.BigInt())
	return NewAmountFromBig(diff)
}

// Neg returns the negated amount. Negating the minimum amount overflows.
func (a Amount) Neg() (Amount, error) {
	return NewAmountFromBig(new(big.Int).Neg(a.BigInt()))
}

// Cmp compares two amounts and returns -1, 0 or 1.
func (a Amount) Cmp(o Amount) int {
	return a.BigInt().Cmp(o.BigInt())
}

// Equals returns true if both amounts represent the same value.
func (a Amount) Equals(o Amount) bool {
	return a.Cmp(o) == 0
}

// LT returns true if a is strictly lower than o.
func (a Amount) LT(o Amount) bool {
	return a.Cmp(o) < 0
}

// GTE returns true if a is greater or equal to o.
func (a Amount) GTE(o Amount) bool {
	return a.Cmp(o) >= 0
}

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool {
	return a.val().IsZero()
}

// IsPositive returns true if the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a.val().IsPositive()
}

// IsNegative returns true if the amount is strictly lower than zero.
func (a Amount) IsNegative() bool {
	return a.val().IsNegative()
}

// String returns the base 10 representation.
func (a Amount) String() string {
	return a.val().String()
}

// Sum adds all given amounts, failing on the first overflow.
func Sum(amounts ...Amount) (Amount, error) {
	total := ZeroAmount()
	for _, a := range amounts {
		var err error
		if total, err = total.Add(a); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}

// MarshalAmino encodes the amount in its decimal string form.
func (a Amount) MarshalAmino() (string, error) {
	return a.String(), nil
}

// UnmarshalAmino decodes the decimal string form.
func (a *Amount) UnmarshalAmino(s string) error {
	if s == "" {
		*a = ZeroAmount()
		return nil
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON encodes the amount as a JSON string so that no precision is
// lost by JSON clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a JSON string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrInvalidAmount, "amount must be a string or a number")
		}
		s = n.String()
	}
	return a.UnmarshalAmino(s)
}

// Set updates this amount value to what is provided. This method implements
// flag.Value interface.
func (a *Amount) Set(raw string) error {
	v, err := ParseAmount(raw)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
