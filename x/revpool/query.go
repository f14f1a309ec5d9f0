package revpool

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/x/cash"
)

// GetAdmin returns the current admin.
func GetAdmin(db custody.ReadOnlyKVStore, instance []byte) (custody.Address, error) {
	p, err := loadPool(db, instance)
	if err != nil {
		return nil, err
	}
	return p.Admin, nil
}

// Balance returns the amount of token held in custody by the pool.
func Balance(db custody.ReadOnlyKVStore, control cash.Controller, instance []byte) (coin.Amount, error) {
	p, err := loadPool(db, instance)
	if err != nil {
		return coin.Amount{}, err
	}
	b, err := control.Balance(db, p.Token, CustodyAddress(instance))
	if err != nil {
		return coin.Amount{}, errors.Wrap(err, "custody balance")
	}
	return b, nil
}
