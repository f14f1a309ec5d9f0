package vault

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
	amino "github.com/tendermint/go-amino"
)

// Vault is the state of a single vault instance.
//
// Balance is the metered prepaid balance. The tokens the vault holds for
// payouts are kept by the token service under CustodyAddress and are
// moved only by the admin.
type Vault struct {
	Owner             custody.Address   `json:"owner"`
	Admin             custody.Address   `json:"admin"`
	Token             string            `json:"token,omitempty"`
	Balance           coin.Amount       `json:"balance"`
	MinDeposit        coin.Amount       `json:"min_deposit"`
	Paused            bool              `json:"paused"`
	AllowedDepositors []custody.Address `json:"allowed_depositors"`
	Settlement        custody.Address   `json:"settlement,omitempty"`
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, v)
}

func (v *Vault) Validate() error {
	if err := v.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	if err := v.Admin.Validate(); err != nil {
		return errors.Field("Admin", err, "invalid admin")
	}
	if v.Token != "" && !coin.IsCC(v.Token) {
		return errors.Field("Token", errors.ErrInvalidState, "invalid ticker %q", v.Token)
	}
	if v.Balance.IsNegative() {
		return errors.Field("Balance", errors.ErrInvalidState, "negative balance")
	}
	if v.MinDeposit.IsNegative() {
		return errors.Field("MinDeposit", errors.ErrInvalidState, "negative minimum deposit")
	}
	for i, d := range v.AllowedDepositors {
		if err := d.Validate(); err != nil {
			return errors.Field("AllowedDepositors", err, "depositor %d", i)
		}
		if custody.ContainsAddress(v.AllowedDepositors[:i], d) {
			return errors.Field("AllowedDepositors", errors.ErrDuplicate, "depositor %s", d)
		}
	}
	if len(v.Settlement) != 0 {
		if err := v.Settlement.Validate(); err != nil {
			return errors.Field("Settlement", err, "invalid settlement")
		}
	}
	return nil
}

func (v *Vault) Copy() orm.CloneableData {
	deps := make([]custody.Address, len(v.AllowedDepositors))
	copy(deps, v.AllowedDepositors)
	return &Vault{
		Owner:             v.Owner,
		Admin:             v.Admin,
		Token:             v.Token,
		Balance:           v.Balance,
		MinDeposit:        v.MinDeposit,
		Paused:            v.Paused,
		AllowedDepositors: deps,
		Settlement:        v.Settlement,
	}
}

// CanDeposit returns true if the address is the owner or an allowed
// depositor.
func (v *Vault) CanDeposit(addr custody.Address) bool {
	return addr.Equals(v.Owner) || custody.ContainsAddress(v.AllowedDepositors, addr)
}

// CustodyAddress returns the address under which the token service holds
// the tokens of the vault.
func CustodyAddress(instance []byte) custody.Address {
	return custody.NewCondition("vault", "custody", instance).Address()
}

// Price is the price of a single API, as set by the vault owner.
type Price struct {
	APIID  string      `json:"api_id"`
	Amount coin.Amount `json:"amount"`
}

var _ orm.Model = (*Price)(nil)

func (p *Price) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(p)
}

func (p *Price) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, p)
}

func (p *Price) Validate() error {
	if err := validateIdentifier(p.APIID); err != nil {
		return errors.Field("APIID", err, "invalid api id")
	}
	if p.Amount.IsNegative() {
		return errors.Field("Amount", errors.ErrInvalidAmount, "negative price")
	}
	return nil
}

func (p *Price) Copy() orm.CloneableData {
	return &Price{APIID: p.APIID, Amount: p.Amount}
}

// Offering carries the free form metadata of a single offering.
type Offering struct {
	OfferingID string `json:"offering_id"`
	Metadata   string `json:"metadata"`
}

var _ orm.Model = (*Offering)(nil)

func (o *Offering) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(o)
}

func (o *Offering) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, o)
}

func (o *Offering) Validate() error {
	if err := validateIdentifier(o.OfferingID); err != nil {
		return errors.Field("OfferingID", err, "invalid offering id")
	}
	return nil
}

func (o *Offering) Copy() orm.CloneableData {
	return &Offering{OfferingID: o.OfferingID, Metadata: o.Metadata}
}

// maxIdentifierLength limits API and offering identifiers.
const maxIdentifierLength = 64

func validateIdentifier(id string) error {
	if id == "" {
		return errors.Wrap(errors.ErrEmpty, "identifier")
	}
	if len(id) > maxIdentifierLength {
		return errors.Wrapf(errors.ErrInvalidArgument, "identifier longer than %d", maxIdentifierLength)
	}
	return nil
}

// Buckets used by this extension. Vault state is keyed by the instance
// prefix, prices and offerings by the instance and their identifier.
var (
	vaults    = orm.NewModelBucket("vault", &Vault{})
	prices    = orm.NewModelBucket("vprice", &Price{})
	offerings = orm.NewModelBucket("voffer", &Offering{})
)

func vaultKey(instance []byte) []byte {
	return orm.InstancePrefix(instance)
}

func subKey(instance []byte, id string) []byte {
	return orm.CompositeKey(instance, []byte(id))
}

// loadVault returns the state of the instance or ErrNotInitialized.
func loadVault(db custody.ReadOnlyKVStore, instance []byte) (*Vault, error) {
	var v Vault
	err := vaults.One(db, vaultKey(instance), &v)
	switch {
	case err == nil:
		return &v, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrapf(errors.ErrNotInitialized, "vault %X", instance)
	default:
		return nil, err
	}
}

func saveVault(db custody.KVStore, instance []byte, v *Vault) error {
	return vaults.Put(db, vaultKey(instance), v)
}
