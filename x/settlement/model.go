package settlement

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
	amino "github.com/tendermint/go-amino"
)

// Settlement is the state of a single settlement instance.
type Settlement struct {
	Admin custody.Address `json:"admin"`
	Vault custody.Address `json:"vault"`
	// TotalBalance is the value credited to the global pool.
	TotalBalance coin.Amount `json:"total_balance"`
	// LastUpdated is the block time of the last pool credit.
	LastUpdated custody.UnixTime `json:"last_updated"`
}

var _ orm.Model = (*Settlement)(nil)

func (s *Settlement) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(s)
}

func (s *Settlement) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, s)
}

func (s *Settlement) Validate() error {
	if err := s.Admin.Validate(); err != nil {
		return errors.Field("Admin", err, "invalid admin")
	}
	if err := s.Vault.Validate(); err != nil {
		return errors.Field("Vault", err, "invalid vault")
	}
	if s.TotalBalance.IsNegative() {
		return errors.Field("TotalBalance", errors.ErrInvalidState, "negative pool balance")
	}
	if err := s.LastUpdated.Validate(); err != nil {
		return errors.Field("LastUpdated", err, "invalid time")
	}
	return nil
}

func (s *Settlement) Copy() orm.CloneableData {
	cpy := *s
	return &cpy
}

// GlobalPool is the view of the pool returned by queries.
type GlobalPool struct {
	TotalBalance coin.Amount      `json:"total_balance"`
	LastUpdated  custody.UnixTime `json:"last_updated"`
}

// DeveloperBalance is the value credited to a single developer.
type DeveloperBalance struct {
	Developer custody.Address `json:"developer"`
	Balance   coin.Amount     `json:"balance"`
}

var _ orm.Model = (*DeveloperBalance)(nil)

func (d *DeveloperBalance) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(d)
}

func (d *DeveloperBalance) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, d)
}

func (d *DeveloperBalance) Validate() error {
	if err := d.Developer.Validate(); err != nil {
		return errors.Field("Developer", err, "invalid developer")
	}
	if d.Balance.IsNegative() {
		return errors.Field("Balance", errors.ErrInvalidState, "negative balance")
	}
	return nil
}

func (d *DeveloperBalance) Copy() orm.CloneableData {
	return &DeveloperBalance{Developer: d.Developer, Balance: d.Balance}
}

var (
	settlements = orm.NewModelBucket("settle", &Settlement{})
	balances    = orm.NewModelBucket("devbal", &DeveloperBalance{})
)

func settlementKey(instance []byte) []byte {
	return orm.InstancePrefix(instance)
}

func balanceKey(instance []byte, developer custody.Address) []byte {
	return orm.CompositeKey(instance, developer)
}

func loadSettlement(db custody.ReadOnlyKVStore, instance []byte) (*Settlement, error) {
	var s Settlement
	switch err := settlements.One(db, settlementKey(instance), &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrNotInitialized, "settlement %X", instance)
	default:
		return nil, err
	}
}

func saveSettlement(db custody.KVStore, instance []byte, s *Settlement) error {
	return settlements.Put(db, settlementKey(instance), s)
}

// loadBalance returns the developer balance, zero if nothing was ever
// credited.
func loadBalance(db custody.ReadOnlyKVStore, instance []byte, developer custody.Address) (*DeveloperBalance, error) {
	var b DeveloperBalance
	switch err := balances.One(db, balanceKey(instance, developer), &b); {
	case err == nil:
		return &b, nil
	case errors.ErrNotFound.Is(err):
		return &DeveloperBalance{Developer: developer, Balance: coin.ZeroAmount()}, nil
	default:
		return nil, err
	}
}
