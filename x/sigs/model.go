package sigs

import (
	"github.com/callora/custody"
	"github.com/callora/custody/crypto"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
	amino "github.com/tendermint/go-amino"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is the greatest nonce a client can safely represent
// (Number.MAX_SAFE_INTEGER).
const maxSequenceValue = (1 << 53) - 1

// UserData is the replay protection state of a single public key.
type UserData struct {
	Pubkey   crypto.PublicKey `json:"pubkey"`
	Sequence int64            `json:"sequence"`
}

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(u)
}

func (u *UserData) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, u)
}

func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && len(u.Pubkey.Ed25519) == 0 {
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

// Copy makes a new UserData with the same content.
func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Pubkey:   crypto.PublicKey{Ed25519: append([]byte(nil), u.Pubkey.Ed25519...)},
		Sequence: u.Sequence,
	}
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// UserBucket stores UserData keyed by the signer address.
type UserBucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing user nonces.
func NewBucket() UserBucket {
	return UserBucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the user owning the given key, or returns a fresh
// user with sequence zero when the key was never seen.
func (b UserBucket) GetOrCreate(db custody.ReadOnlyKVStore, pubkey crypto.PublicKey) (*UserData, error) {
	var user UserData
	err := b.One(db, pubkey.Address(), &user)
	switch {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return &UserData{Pubkey: pubkey}, nil
	default:
		return nil, err
	}
}
