package settlement

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
)

var (
	_ custody.Msg = (*InitMsg)(nil)
	_ custody.Msg = (*ReceivePaymentMsg)(nil)
	_ custody.Msg = (*SetAdminMsg)(nil)
	_ custody.Msg = (*SetVaultMsg)(nil)
)

// InitMsg creates a settlement instance bound to a vault.
type InitMsg struct {
	Instance []byte          `json:"instance"`
	Admin    custody.Address `json:"admin"`
	Vault    custody.Address `json:"vault"`
}

func (InitMsg) Path() string {
	return "settlement/init"
}

func (m *InitMsg) Validate() error {
	if err := orm.ValidateInstanceID(m.Instance); err != nil {
		return errors.Field("Instance", err, "invalid instance")
	}
	if err := m.Admin.Validate(); err != nil {
		return errors.Field("Admin", err, "invalid admin")
	}
	if err := m.Vault.Validate(); err != nil {
		return errors.Field("Vault", err, "invalid vault")
	}
	return nil
}

// ReceivePaymentMsg reports a payment. When ToPool is set the global pool
// is credited and Developer is ignored, otherwise Developer is credited.
type ReceivePaymentMsg struct {
	Instance  []byte          `json:"instance"`
	Caller    custody.Address `json:"caller"`
	Amount    coin.Amount     `json:"amount"`
	ToPool    bool            `json:"to_pool"`
	Developer custody.Address `json:"developer,omitempty"`
}

func (ReceivePaymentMsg) Path() string {
	return "settlement/receive_payment"
}

func (m *ReceivePaymentMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	if len(m.Developer) != 0 {
		if err := m.Developer.Validate(); err != nil {
			return errors.Field("Developer", err, "invalid developer")
		}
	}
	return nil
}

// SetAdminMsg replaces the admin.
type SetAdminMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	NewAdmin custody.Address `json:"new_admin"`
}

func (SetAdminMsg) Path() string {
	return "settlement/set_admin"
}

func (m *SetAdminMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	return errors.Field("NewAdmin", m.NewAdmin.Validate(), "invalid admin")
}

// SetVaultMsg replaces the vault allowed to report payments.
type SetVaultMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	NewVault custody.Address `json:"new_vault"`
}

func (SetVaultMsg) Path() string {
	return "settlement/set_vault"
}

func (m *SetVaultMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	return errors.Field("NewVault", m.NewVault.Validate(), "invalid vault")
}

func validateCaller(instance []byte, caller custody.Address) error {
	if err := orm.ValidateInstanceID(instance); err != nil {
		return errors.Field("Instance", err, "invalid instance")
	}
	return errors.Field("Caller", caller.Validate(), "invalid caller")
}
