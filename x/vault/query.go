package vault

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/x/cash"
)

// GetMeta returns a copy of the vault state.
func GetMeta(db custody.ReadOnlyKVStore, instance []byte) (*Vault, error) {
	return loadVault(db, instance)
}

// Balance returns the current balance of the vault.
func Balance(db custody.ReadOnlyKVStore, instance []byte) (coin.Amount, error) {
	v, err := loadVault(db, instance)
	if err != nil {
		return coin.Amount{}, err
	}
	return v.Balance, nil
}

// GetPrice returns the price of the API and whether it was ever set.
func GetPrice(db custody.ReadOnlyKVStore, instance []byte, apiID string) (coin.Amount, bool, error) {
	var p Price
	switch err := prices.One(db, subKey(instance, apiID), &p); {
	case err == nil:
		return p.Amount, true, nil
	case errors.ErrNotFound.Is(err):
		return coin.ZeroAmount(), false, nil
	default:
		return coin.Amount{}, false, err
	}
}

// GetMetadata returns the metadata of the offering and whether it was ever
// set.
func GetMetadata(db custody.ReadOnlyKVStore, instance []byte, offeringID string) (string, bool, error) {
	var o Offering
	switch err := offerings.One(db, subKey(instance, offeringID), &o); {
	case err == nil:
		return o.Metadata, true, nil
	case errors.ErrNotFound.Is(err):
		return "", false, nil
	default:
		return "", false, err
	}
}

// GetSettlement returns the settlement address. ErrNotFound is returned
// if none was configured.
func GetSettlement(db custody.ReadOnlyKVStore, instance []byte) (custody.Address, error) {
	v, err := loadVault(db, instance)
	if err != nil {
		return nil, err
	}
	if len(v.Settlement) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, "settlement")
	}
	return v.Settlement, nil
}

// GetAdmin returns the address allowed to distribute.
func GetAdmin(db custody.ReadOnlyKVStore, instance []byte) (custody.Address, error) {
	v, err := loadVault(db, instance)
	if err != nil {
		return nil, err
	}
	return v.Admin, nil
}

// Holdings returns the tokens held in custody for the vault. A vault
// without a token holds nothing.
func Holdings(db custody.ReadOnlyKVStore, control cash.Controller, instance []byte) (coin.Amount, error) {
	v, err := loadVault(db, instance)
	if err != nil {
		return coin.Amount{}, err
	}
	if v.Token == "" {
		return coin.ZeroAmount(), nil
	}
	return control.Balance(db, v.Token, CustodyAddress(instance))
}
