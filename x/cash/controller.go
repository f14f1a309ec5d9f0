package cash

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
)

// Controller is the token service contract used by other extensions.
type Controller interface {
	// Balance returns the amount of token held by the holder. Unknown
	// holders have a zero balance.
	Balance(db custody.ReadOnlyKVStore, token string, holder custody.Address) (coin.Amount, error)

	// Transfer moves amount of token from src to dest. It fails without
	// any change if src does not hold enough.
	Transfer(db custody.KVStore, token string, src, dest custody.Address, amount coin.Amount) error
}

// BaseController is the default Controller. It also allows issuing new
// tokens, which only genesis and tests should do.
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller operating on the given bucket.
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

// Balance returns the current balance of the holder.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, token string, holder custody.Address) (coin.Amount, error) {
	if !coin.IsCC(token) {
		return coin.Amount{}, errors.Wrapf(errors.ErrInvalidArgument, "token %q", token)
	}
	w, err := c.bucket.GetOrCreate(db, token, holder)
	if err != nil {
		return coin.Amount{}, err
	}
	return w.Amount, nil
}

// Transfer moves the given amount from src to dest.
func (c BaseController) Transfer(db custody.KVStore, token string, src, dest custody.Address, amount coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non positive transfer %s", amount)
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.bucket.GetOrCreate(db, token, src)
	if err != nil {
		return err
	}
	if sender.Amount.LT(amount) {
		return errors.Wrapf(errors.ErrInsufficientBalance, "%s holds %s %s, needs %s", src, sender.Amount, token, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	recipient, err := c.bucket.GetOrCreate(db, token, dest)
	if err != nil {
		return err
	}

	if sender.Amount, err = sender.Amount.Sub(amount); err != nil {
		return err
	}
	if recipient.Amount, err = recipient.Amount.Add(amount); err != nil {
		return errors.Wrap(err, "recipient balance")
	}

	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// Issue adds the given amount of token to the holder balance. Fails if it
// overflows the wallet.
func (c BaseController) Issue(db custody.KVStore, token string, dest custody.Address, amount coin.Amount) error {
	if amount.IsNegative() {
		return errors.Wrap(errors.ErrInvalidAmount, "negative issue")
	}
	recipient, err := c.bucket.GetOrCreate(db, token, dest)
	if err != nil {
		return err
	}
	if recipient.Amount, err = recipient.Amount.Add(amount); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}
