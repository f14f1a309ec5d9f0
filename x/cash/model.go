package cash

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
	amino "github.com/tendermint/go-amino"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet is the balance of a single token held by a single address.
type Wallet struct {
	Token  string          `json:"token"`
	Holder custody.Address `json:"holder"`
	Amount coin.Amount     `json:"amount"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, w)
}

// Validate requires a known token, a valid holder and a non negative
// balance.
func (w *Wallet) Validate() error {
	if !coin.IsCC(w.Token) {
		return errors.Field("Token", errors.ErrInvalidArgument, "invalid token %q", w.Token)
	}
	if err := w.Holder.Validate(); err != nil {
		return errors.Field("Holder", err, "invalid holder")
	}
	if w.Amount.IsNegative() {
		return errors.Field("Amount", errors.ErrInvalidAmount, "negative balance")
	}
	return nil
}

func (w *Wallet) Copy() orm.CloneableData {
	return &Wallet{
		Token:  w.Token,
		Holder: append(custody.Address(nil), w.Holder...),
		Amount: w.Amount,
	}
}

// WalletKey returns the primary key of the wallet of holder for token.
func WalletKey(token string, holder custody.Address) []byte {
	return orm.CompositeKey([]byte(token), holder)
}

// Bucket stores wallets.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing wallets.
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Wallet{}),
	}
}

// GetOrCreate returns the wallet of the holder, or an empty one when the
// holder never received the token.
func (b Bucket) GetOrCreate(db custody.ReadOnlyKVStore, token string, holder custody.Address) (*Wallet, error) {
	var w Wallet
	err := b.One(db, WalletKey(token, holder), &w)
	switch {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{Token: token, Holder: holder, Amount: coin.ZeroAmount()}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet under its token and holder.
func (b Bucket) Save(db custody.KVStore, w *Wallet) error {
	return b.Put(db, WalletKey(w.Token, w.Holder), w)
}
