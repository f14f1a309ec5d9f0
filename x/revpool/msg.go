package revpool

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
)

var (
	_ custody.Msg = (*InitMsg)(nil)
	_ custody.Msg = (*DistributeMsg)(nil)
	_ custody.Msg = (*BatchDistributeMsg)(nil)
	_ custody.Msg = (*ReceivePaymentMsg)(nil)
	_ custody.Msg = (*SetAdminMsg)(nil)
)

// InitMsg creates a revenue pool holding the given token.
type InitMsg struct {
	Instance []byte          `json:"instance"`
	Admin    custody.Address `json:"admin"`
	Token    string          `json:"token"`
}

func (InitMsg) Path() string {
	return "revpool/init"
}

func (m *InitMsg) Validate() error {
	if err := orm.ValidateInstanceID(m.Instance); err != nil {
		return errors.Field("Instance", err, "invalid instance")
	}
	if err := m.Admin.Validate(); err != nil {
		return errors.Field("Admin", err, "invalid admin")
	}
	if !coin.IsCC(m.Token) {
		return errors.Field("Token", errors.ErrInvalidArgument, "invalid ticker %q", m.Token)
	}
	return nil
}

// Payment is a single payout.
type Payment struct {
	To     custody.Address `json:"to"`
	Amount coin.Amount     `json:"amount"`
}

// DistributeMsg pays a developer out of the pool custody.
type DistributeMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	To       custody.Address `json:"to"`
	Amount   coin.Amount     `json:"amount"`
}

func (DistributeMsg) Path() string {
	return "revpool/distribute"
}

func (m *DistributeMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	return errors.Field("To", validateRecipient(m.Instance, m.To), "invalid recipient")
}

// BatchDistributeMsg pays many developers at once. Either every payment is
// made or none is.
type BatchDistributeMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	Payments []Payment       `json:"payments"`
}

func (BatchDistributeMsg) Path() string {
	return "revpool/batch_distribute"
}

func (m *BatchDistributeMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	for i, p := range m.Payments {
		if err := validateRecipient(m.Instance, p.To); err != nil {
			return errors.Field("Payments", err, "recipient of payment %d", i)
		}
	}
	return nil
}

// ReceivePaymentMsg announces a payment made to the pool custody address.
type ReceivePaymentMsg struct {
	Instance  []byte          `json:"instance"`
	Caller    custody.Address `json:"caller"`
	Amount    coin.Amount     `json:"amount"`
	FromVault bool            `json:"from_vault"`
}

func (ReceivePaymentMsg) Path() string {
	return "revpool/receive_payment"
}

func (m *ReceivePaymentMsg) Validate() error {
	return validateCaller(m.Instance, m.Caller)
}

// SetAdminMsg replaces the admin.
type SetAdminMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	NewAdmin custody.Address `json:"new_admin"`
}

func (SetAdminMsg) Path() string {
	return "revpool/set_admin"
}

func (m *SetAdminMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	return errors.Field("NewAdmin", m.NewAdmin.Validate(), "invalid admin")
}

func validateCaller(instance []byte, caller custody.Address) error {
	if err := orm.ValidateInstanceID(instance); err != nil {
		return errors.Field("Instance", err, "invalid instance")
	}
	return errors.Field("Caller", caller.Validate(), "invalid caller")
}

// validateRecipient rejects payouts to the custody account itself, which
// would move nothing.
func validateRecipient(instance []byte, to custody.Address) error {
	if err := to.Validate(); err != nil {
		return err
	}
	if to.Equals(CustodyAddress(instance)) {
		return errors.Wrap(errors.ErrInvalidArgument, "recipient is the pool custody")
	}
	return nil
}
