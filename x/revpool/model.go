package revpool

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
	amino "github.com/tendermint/go-amino"
)

// Pool is the state of a single revenue pool instance.
type Pool struct {
	Admin custody.Address `json:"admin"`
	// Token is the ticker of the token held in custody.
	Token string `json:"token"`
}

var _ orm.Model = (*Pool)(nil)

func (p *Pool) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(p)
}

func (p *Pool) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, p)
}

func (p *Pool) Validate() error {
	if err := p.Admin.Validate(); err != nil {
		return errors.Field("Admin", err, "invalid admin")
	}
	if !coin.IsCC(p.Token) {
		return errors.Field("Token", errors.ErrInvalidArgument, "invalid ticker %q", p.Token)
	}
	return nil
}

func (p *Pool) Copy() orm.CloneableData {
	return &Pool{Admin: p.Admin, Token: p.Token}
}

var pools = orm.NewModelBucket("revpool", &Pool{})

// CustodyAddress returns the address under which the token service holds
// the pool funds.
func CustodyAddress(instance []byte) custody.Address {
	return custody.NewCondition("revpool", "custody", instance).Address()
}

func loadPool(db custody.ReadOnlyKVStore, instance []byte) (*Pool, error) {
	var p Pool
	switch err := pools.One(db, orm.InstancePrefix(instance), &p); {
	case err == nil:
		return &p, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrNotInitialized, "revenue pool %X", instance)
	default:
		return nil, err
	}
}

func savePool(db custody.KVStore, instance []byte, p *Pool) error {
	return pools.Put(db, orm.InstancePrefix(instance), p)
}
