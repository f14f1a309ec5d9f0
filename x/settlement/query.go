package settlement

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
)

// GetAdmin returns the current admin.
func GetAdmin(db custody.ReadOnlyKVStore, instance []byte) (custody.Address, error) {
	s, err := loadSettlement(db, instance)
	if err != nil {
		return nil, err
	}
	return s.Admin, nil
}

// GetVault returns the vault allowed to report payments.
func GetVault(db custody.ReadOnlyKVStore, instance []byte) (custody.Address, error) {
	s, err := loadSettlement(db, instance)
	if err != nil {
		return nil, err
	}
	return s.Vault, nil
}

// GetGlobalPool returns the state of the global pool.
func GetGlobalPool(db custody.ReadOnlyKVStore, instance []byte) (*GlobalPool, error) {
	s, err := loadSettlement(db, instance)
	if err != nil {
		return nil, err
	}
	return &GlobalPool{TotalBalance: s.TotalBalance, LastUpdated: s.LastUpdated}, nil
}

// GetDeveloperBalance returns the value credited to the developer. Zero is
// returned for a developer that was never credited.
func GetDeveloperBalance(db custody.ReadOnlyKVStore, instance []byte, developer custody.Address) (coin.Amount, error) {
	b, err := loadBalance(db, instance, developer)
	if err != nil {
		return coin.Amount{}, err
	}
	return b.Balance, nil
}

// BalanceIterator lazily walks over all developer balances of a single
// settlement instance, in key order.
type BalanceIterator struct {
	it orm.ModelIterator
}

// GetAllDeveloperBalances returns an iterator over all credited developers.
// The iterator must be released once no longer used.
func GetAllDeveloperBalances(db custody.ReadOnlyKVStore, instance []byte) (*BalanceIterator, error) {
	it, err := balances.PrefixScan(db, orm.InstancePrefix(instance), false)
	if err != nil {
		return nil, errors.Wrap(err, "scan balances")
	}
	return &BalanceIterator{it: it}, nil
}

// Next returns the next developer balance. ErrIteratorDone is returned once
// all balances were read.
func (b *BalanceIterator) Next() (*DeveloperBalance, error) {
	var d DeveloperBalance
	if _, err := b.it.LoadNext(&d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Release frees the underlying database iterator.
func (b *BalanceIterator) Release() {
	b.it.Release()
}
