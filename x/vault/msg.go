package vault

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
)

const maxRequestIDLength = 64

var (
	_ custody.Msg = (*InitMsg)(nil)
	_ custody.Msg = (*SetAllowedDepositorMsg)(nil)
	_ custody.Msg = (*DepositMsg)(nil)
	_ custody.Msg = (*DeductMsg)(nil)
	_ custody.Msg = (*BatchDeductMsg)(nil)
	_ custody.Msg = (*PauseMsg)(nil)
	_ custody.Msg = (*UnpauseMsg)(nil)
	_ custody.Msg = (*SetPriceMsg)(nil)
	_ custody.Msg = (*SetMetadataMsg)(nil)
	_ custody.Msg = (*UpdateMetadataMsg)(nil)
	_ custody.Msg = (*SetSettlementMsg)(nil)
	_ custody.Msg = (*TransferOwnershipMsg)(nil)
	_ custody.Msg = (*SetAdminMsg)(nil)
	_ custody.Msg = (*DistributeMsg)(nil)
)

// InitMsg creates a vault instance. Zero amounts are used when the
// optional initial balance or minimum deposit are not given. The owner
// becomes the first admin. Token names the ticker paid out by distribute,
// a vault without one cannot distribute.
type InitMsg struct {
	Instance       []byte          `json:"instance"`
	Owner          custody.Address `json:"owner"`
	Token          string          `json:"token,omitempty"`
	InitialBalance coin.Amount     `json:"initial_balance"`
	MinDeposit     coin.Amount     `json:"min_deposit"`
}

func (InitMsg) Path() string {
	return "vault/init"
}

func (m *InitMsg) Validate() error {
	if err := orm.ValidateInstanceID(m.Instance); err != nil {
		return errors.Field("Instance", err, "invalid instance")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	if m.Token != "" && !coin.IsCC(m.Token) {
		return errors.Field("Token", errors.ErrInvalidArgument, "invalid ticker %q", m.Token)
	}
	return nil
}

// SetAllowedDepositorMsg allows Depositor to credit the vault. A message
// without a depositor clears the whole list.
type SetAllowedDepositorMsg struct {
	Instance  []byte          `json:"instance"`
	Caller    custody.Address `json:"caller"`
	Depositor custody.Address `json:"depositor,omitempty"`
}

func (SetAllowedDepositorMsg) Path() string {
	return "vault/set_allowed_depositor"
}

func (m *SetAllowedDepositorMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	if m.Depositor != nil {
		if err := m.Depositor.Validate(); err != nil {
			return errors.Field("Depositor", err, "invalid depositor")
		}
	}
	return nil
}

// DepositMsg credits the vault.
type DepositMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	Amount   coin.Amount     `json:"amount"`
}

func (DepositMsg) Path() string {
	return "vault/deposit"
}

func (m *DepositMsg) Validate() error {
	return validateCaller(m.Instance, m.Caller)
}

// DeductMsg meters a single usage against the vault balance.
type DeductMsg struct {
	Instance  []byte          `json:"instance"`
	Caller    custody.Address `json:"caller"`
	Amount    coin.Amount     `json:"amount"`
	RequestID string          `json:"request_id,omitempty"`
}

func (DeductMsg) Path() string {
	return "vault/deduct"
}

func (m *DeductMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	return validateRequestID(m.RequestID)
}

// DeductItem is a single entry of a batch deduction.
type DeductItem struct {
	Amount    coin.Amount `json:"amount"`
	RequestID string      `json:"request_id,omitempty"`
}

// BatchDeductMsg meters many usages at once. Either all items are
// deducted or none is.
type BatchDeductMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	Items    []DeductItem    `json:"items"`
}

func (BatchDeductMsg) Path() string {
	return "vault/batch_deduct"
}

func (m *BatchDeductMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	for i, it := range m.Items {
		if err := validateRequestID(it.RequestID); err != nil {
			return errors.Wrapf(err, "item %d", i)
		}
	}
	return nil
}

// PauseMsg stops deductions.
type PauseMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
}

func (PauseMsg) Path() string {
	return "vault/pause"
}

func (m *PauseMsg) Validate() error {
	return validateCaller(m.Instance, m.Caller)
}

// UnpauseMsg resumes deductions.
type UnpauseMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
}

func (UnpauseMsg) Path() string {
	return "vault/unpause"
}

func (m *UnpauseMsg) Validate() error {
	return validateCaller(m.Instance, m.Caller)
}

// SetPriceMsg sets the price of an API.
type SetPriceMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	APIID    string          `json:"api_id"`
	Price    coin.Amount     `json:"price"`
}

func (SetPriceMsg) Path() string {
	return "vault/set_price"
}

func (m *SetPriceMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	if err := validateIdentifier(m.APIID); err != nil {
		return errors.Field("APIID", err, "invalid api id")
	}
	return nil
}

// SetMetadataMsg sets the metadata of an offering.
type SetMetadataMsg struct {
	Instance   []byte          `json:"instance"`
	Caller     custody.Address `json:"caller"`
	OfferingID string          `json:"offering_id"`
	Metadata   string          `json:"metadata"`
}

func (SetMetadataMsg) Path() string {
	return "vault/set_metadata"
}

func (m *SetMetadataMsg) Validate() error {
	return validateOffering(m.Instance, m.Caller, m.OfferingID)
}

// UpdateMetadataMsg replaces previously set metadata of an offering.
type UpdateMetadataMsg struct {
	Instance   []byte          `json:"instance"`
	Caller     custody.Address `json:"caller"`
	OfferingID string          `json:"offering_id"`
	Metadata   string          `json:"metadata"`
}

func (UpdateMetadataMsg) Path() string {
	return "vault/update_metadata"
}

func (m *UpdateMetadataMsg) Validate() error {
	return validateOffering(m.Instance, m.Caller, m.OfferingID)
}

// SetSettlementMsg records the settlement deducted value is routed to.
type SetSettlementMsg struct {
	Instance   []byte          `json:"instance"`
	Caller     custody.Address `json:"caller"`
	Settlement custody.Address `json:"settlement"`
}

func (SetSettlementMsg) Path() string {
	return "vault/set_settlement"
}

func (m *SetSettlementMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	if err := m.Settlement.Validate(); err != nil {
		return errors.Field("Settlement", err, "invalid settlement")
	}
	return nil
}

// TransferOwnershipMsg hands the vault over to a new owner. It must be
// signed by the current owner.
type TransferOwnershipMsg struct {
	Instance []byte          `json:"instance"`
	NewOwner custody.Address `json:"new_owner"`
}

func (TransferOwnershipMsg) Path() string {
	return "vault/transfer_ownership"
}

func (m *TransferOwnershipMsg) Validate() error {
	if err := orm.ValidateInstanceID(m.Instance); err != nil {
		return errors.Field("Instance", err, "invalid instance")
	}
	if err := m.NewOwner.Validate(); err != nil {
		return errors.Field("NewOwner", err, "invalid new owner")
	}
	return nil
}

// SetAdminMsg replaces the admin allowed to distribute.
type SetAdminMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	NewAdmin custody.Address `json:"new_admin"`
}

func (SetAdminMsg) Path() string {
	return "vault/set_admin"
}

func (m *SetAdminMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	return errors.Field("NewAdmin", m.NewAdmin.Validate(), "invalid admin")
}

// DistributeMsg pays tokens held by the vault to a recipient.
type DistributeMsg struct {
	Instance []byte          `json:"instance"`
	Caller   custody.Address `json:"caller"`
	To       custody.Address `json:"to"`
	Amount   coin.Amount     `json:"amount"`
}

func (DistributeMsg) Path() string {
	return "vault/distribute"
}

func (m *DistributeMsg) Validate() error {
	if err := validateCaller(m.Instance, m.Caller); err != nil {
		return err
	}
	if err := m.To.Validate(); err != nil {
		return errors.Field("To", err, "invalid recipient")
	}
	if m.To.Equals(CustodyAddress(m.Instance)) {
		return errors.Field("To", errors.ErrInvalidArgument, "recipient is the vault custody")
	}
	return nil
}

func validateCaller(instance []byte, caller custody.Address) error {
	if err := orm.ValidateInstanceID(instance); err != nil {
		return errors.Field("Instance", err, "invalid instance")
	}
	if err := caller.Validate(); err != nil {
		return errors.Field("Caller", err, "invalid caller")
	}
	return nil
}

func validateOffering(instance []byte, caller custody.Address, offeringID string) error {
	if err := validateCaller(instance, caller); err != nil {
		return err
	}
	if err := validateIdentifier(offeringID); err != nil {
		return errors.Field("OfferingID", err, "invalid offering id")
	}
	return nil
}

func validateRequestID(id string) error {
	if len(id) > maxRequestIDLength {
		return errors.Field("RequestID", errors.ErrInvalidArgument, "longer than %d", maxRequestIDLength)
	}
	return nil
}
