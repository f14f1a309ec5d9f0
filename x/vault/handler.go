package vault

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/x"
	"github.com/callora/custody/x/cash"
	amino "github.com/tendermint/go-amino"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Payouts move tokens using the given cash controller.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control cash.Controller) {
	r.Handle(InitMsg{}.Path(), InitHandler{auth: auth})
	r.Handle(SetAllowedDepositorMsg{}.Path(), SetAllowedDepositorHandler{auth: auth})
	r.Handle(DepositMsg{}.Path(), DepositHandler{auth: auth})
	r.Handle(DeductMsg{}.Path(), DeductHandler{auth: auth})
	r.Handle(BatchDeductMsg{}.Path(), BatchDeductHandler{auth: auth})
	r.Handle(PauseMsg{}.Path(), PauseHandler{auth: auth})
	r.Handle(UnpauseMsg{}.Path(), PauseHandler{auth: auth, unpause: true})
	r.Handle(SetPriceMsg{}.Path(), SetPriceHandler{auth: auth})
	r.Handle(SetMetadataMsg{}.Path(), MetadataHandler{auth: auth})
	r.Handle(UpdateMetadataMsg{}.Path(), MetadataHandler{auth: auth, update: true})
	r.Handle(SetSettlementMsg{}.Path(), SetSettlementHandler{auth: auth})
	r.Handle(TransferOwnershipMsg{}.Path(), TransferOwnershipHandler{auth: auth})
	r.Handle(SetAdminMsg{}.Path(), SetAdminHandler{auth: auth})
	r.Handle(DistributeMsg{}.Path(), DistributeHandler{auth: auth, control: control})
}

// RegisterQuery exposes the vault buckets as "/vaults", "/vaultprices"
// and "/vaultoffers".
func RegisterQuery(qr custody.QueryRouter) {
	vaults.Register("vaults", qr)
	prices.Register("vaultprices", qr)
	offerings.Register("vaultoffers", qr)
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(&InitMsg{}, "vault/InitMsg", nil)
	cdc.RegisterConcrete(&SetAllowedDepositorMsg{}, "vault/SetAllowedDepositorMsg", nil)
	cdc.RegisterConcrete(&DepositMsg{}, "vault/DepositMsg", nil)
	cdc.RegisterConcrete(&DeductMsg{}, "vault/DeductMsg", nil)
	cdc.RegisterConcrete(&BatchDeductMsg{}, "vault/BatchDeductMsg", nil)
	cdc.RegisterConcrete(&PauseMsg{}, "vault/PauseMsg", nil)
	cdc.RegisterConcrete(&UnpauseMsg{}, "vault/UnpauseMsg", nil)
	cdc.RegisterConcrete(&SetPriceMsg{}, "vault/SetPriceMsg", nil)
	cdc.RegisterConcrete(&SetMetadataMsg{}, "vault/SetMetadataMsg", nil)
	cdc.RegisterConcrete(&UpdateMetadataMsg{}, "vault/UpdateMetadataMsg", nil)
	cdc.RegisterConcrete(&SetSettlementMsg{}, "vault/SetSettlementMsg", nil)
	cdc.RegisterConcrete(&TransferOwnershipMsg{}, "vault/TransferOwnershipMsg", nil)
	cdc.RegisterConcrete(&SetAdminMsg{}, "vault/SetAdminMsg", nil)
	cdc.RegisterConcrete(&DistributeMsg{}, "vault/DistributeMsg", nil)
}

func balanceResult(balance coin.Amount) *custody.DeliverResult {
	return &custody.DeliverResult{Data: []byte(balance.String())}
}

// InitHandler creates a new vault instance.
type InitHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = InitHandler{}

func (h InitHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h InitHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	v := &Vault{
		Owner:      msg.Owner,
		Admin:      msg.Owner,
		Token:      msg.Token,
		Balance:    msg.InitialBalance,
		MinDeposit: msg.MinDeposit,
	}
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	res := balanceResult(v.Balance)
	res.Emit(custody.NewEvent(EventInit,
		InitEvent{Balance: v.Balance, MinDeposit: v.MinDeposit},
		msg.Owner))
	return res, nil
}

func (h InitHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*InitMsg, error) {
	var msg InitMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.Authenticate(ctx, h.auth, msg.Owner); err != nil {
		return nil, err
	}
	if ok, err := vaults.Has(db, vaultKey(msg.Instance)); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrAlreadyInitialized, "vault %X", msg.Instance)
	}
	if msg.InitialBalance.IsNegative() {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "negative initial balance")
	}
	if msg.MinDeposit.IsNegative() {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "negative minimum deposit")
	}
	return &msg, nil
}

// SetAllowedDepositorHandler maintains the list of addresses allowed to
// deposit.
type SetAllowedDepositorHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = SetAllowedDepositorHandler{}

func (h SetAllowedDepositorHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h SetAllowedDepositorHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if msg.Depositor == nil {
		v.AllowedDepositors = nil
	} else if !custody.ContainsAddress(v.AllowedDepositors, msg.Depositor) {
		v.AllowedDepositors = append(v.AllowedDepositors, msg.Depositor)
	}
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventAllowedDepositor,
		AllowedDepositorEvent{Depositor: msg.Depositor, Cleared: msg.Depositor == nil},
		msg.Caller))
	return res, nil
}

func (h SetAllowedDepositorHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetAllowedDepositorMsg, *Vault, error) {
	var msg SetAllowedDepositorMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := loadOwned(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// DepositHandler credits the vault.
type DepositHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h DepositHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	balance, err := v.Balance.Add(msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "vault balance")
	}
	v.Balance = balance
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	res := balanceResult(balance)
	res.Emit(custody.NewEvent(EventDeposit,
		DepositEvent{Amount: msg.Amount, NewBalance: balance},
		msg.Caller))
	return res, nil
}

func (h DepositHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*DepositMsg, *Vault, error) {
	var msg DepositMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.Authenticate(ctx, h.auth, msg.Caller); err != nil {
		return nil, nil, err
	}
	if !msg.Amount.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "deposit must be positive")
	}
	v, err := loadVault(db, msg.Instance)
	if err != nil {
		return nil, nil, err
	}
	if !v.CanDeposit(msg.Caller) {
		return nil, nil, errors.Wrapf(errors.ErrUnauthorized, "%s may not deposit", msg.Caller)
	}
	if msg.Amount.LT(v.MinDeposit) {
		return nil, nil, errors.Wrapf(errors.ErrInvalidAmount, "deposit below minimum of %s", v.MinDeposit)
	}
	return &msg, v, nil
}

// DeductHandler meters a single usage.
type DeductHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = DeductHandler{}

func (h DeductHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h DeductHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := &custody.DeliverResult{}
	item := DeductItem{Amount: msg.Amount, RequestID: msg.RequestID}
	if err := deduct(v, item, msg.Caller, res); err != nil {
		return nil, err
	}
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	res.Data = []byte(v.Balance.String())
	return res, nil
}

func (h DeductHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*DeductMsg, *Vault, error) {
	var msg DeductMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := loadOwned(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	if v.Paused {
		return nil, nil, errors.Wrapf(errors.ErrPaused, "vault %X", msg.Instance)
	}
	if !msg.Amount.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "deduction must be positive")
	}
	return &msg, v, nil
}

// deduct subtracts a single item from the vault balance and emits its
// event into the result.
func deduct(v *Vault, item DeductItem, caller custody.Address, res *custody.DeliverResult) error {
	if v.Balance.LT(item.Amount) {
		return errors.Wrapf(errors.ErrInsufficientBalance, "balance %s, deduction %s", v.Balance, item.Amount)
	}
	balance, err := v.Balance.Sub(item.Amount)
	if err != nil {
		return errors.Wrap(err, "vault balance")
	}
	v.Balance = balance
	res.Emit(custody.NewEvent(EventDeduct,
		DeductEvent{Amount: item.Amount, RequestID: item.RequestID, NewBalance: balance},
		caller))
	return nil
}

// BatchDeductHandler meters many usages in a single, all or nothing,
// operation.
type BatchDeductHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = BatchDeductHandler{}

func (h BatchDeductHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h BatchDeductHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := &custody.DeliverResult{}
	for i, item := range msg.Items {
		if err := deduct(v, item, msg.Caller, res); err != nil {
			return nil, errors.Wrapf(err, "item %d", i)
		}
	}
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	res.Data = []byte(v.Balance.String())
	return res, nil
}

func (h BatchDeductHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*BatchDeductMsg, *Vault, error) {
	var msg BatchDeductMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := loadOwned(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	if v.Paused {
		return nil, nil, errors.Wrapf(errors.ErrPaused, "vault %X", msg.Instance)
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	switch n := int64(len(msg.Items)); {
	case n == 0:
		return nil, nil, errors.Wrap(errors.ErrInvalidArgument, "empty batch")
	case n > conf.MaxBatchSize:
		return nil, nil, errors.Wrapf(errors.ErrInvalidArgument, "batch of %d exceeds %d items", n, conf.MaxBatchSize)
	}
	for i, item := range msg.Items {
		if !item.Amount.IsPositive() {
			return nil, nil, errors.Wrapf(errors.ErrInvalidAmount, "item %d must be positive", i)
		}
	}
	return &msg, v, nil
}

// PauseHandler toggles the paused flag. It handles both pause and unpause
// messages.
type PauseHandler struct {
	auth    x.Authenticator
	unpause bool
}

var _ custody.Handler = PauseHandler{}

func (h PauseHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h PauseHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	instance, caller, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	v.Paused = !h.unpause
	if err := saveVault(db, instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	name := EventPause
	if h.unpause {
		name = EventUnpause
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(name, PauseEvent{Paused: v.Paused}, caller))
	return res, nil
}

func (h PauseHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) ([]byte, custody.Address, *Vault, error) {
	var instance []byte
	var caller custody.Address
	if h.unpause {
		var msg UnpauseMsg
		if err := custody.LoadMsg(tx, &msg); err != nil {
			return nil, nil, nil, errors.Wrap(err, "load msg")
		}
		instance, caller = msg.Instance, msg.Caller
	} else {
		var msg PauseMsg
		if err := custody.LoadMsg(tx, &msg); err != nil {
			return nil, nil, nil, errors.Wrap(err, "load msg")
		}
		instance, caller = msg.Instance, msg.Caller
	}
	v, err := loadOwned(ctx, h.auth, db, instance, caller)
	if err != nil {
		return nil, nil, nil, err
	}
	return instance, caller, v, nil
}

// SetPriceHandler stores the price of an API.
type SetPriceHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = SetPriceHandler{}

func (h SetPriceHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h SetPriceHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p := &Price{APIID: msg.APIID, Amount: msg.Price}
	if err := prices.Put(db, subKey(msg.Instance, msg.APIID), p); err != nil {
		return nil, errors.Wrap(err, "save price")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventSetPrice,
		SetPriceEvent{APIID: msg.APIID, Price: msg.Price},
		msg.Caller))
	return res, nil
}

func (h SetPriceHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetPriceMsg, error) {
	var msg SetPriceMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.Authenticate(ctx, h.auth, msg.Caller); err != nil {
		return nil, err
	}
	v, err := loadVault(db, msg.Instance)
	if err != nil {
		return nil, err
	}
	if err := x.RequireOneOf(msg.Caller, append([]custody.Address{v.Owner}, v.AllowedDepositors...)...); err != nil {
		return nil, err
	}
	if msg.Price.IsNegative() {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "negative price")
	}
	return &msg, nil
}

// MetadataHandler sets or updates offering metadata.
type MetadataHandler struct {
	auth   x.Authenticator
	update bool
}

var _ custody.Handler = MetadataHandler{}

func (h MetadataHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h MetadataHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, old, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	o := &Offering{OfferingID: msg.OfferingID, Metadata: msg.Metadata}
	if err := offerings.Put(db, subKey(msg.Instance, msg.OfferingID), o); err != nil {
		return nil, errors.Wrap(err, "save offering")
	}
	name := EventMetadataSet
	if h.update {
		name = EventMetadataUpdated
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(name,
		MetadataEvent{OfferingID: msg.OfferingID, OldValue: old, NewValue: msg.Metadata},
		msg.Caller))
	return res, nil
}

// validate returns the message, normalized to SetMetadataMsg, together
// with the previously stored metadata.
func (h MetadataHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetMetadataMsg, string, error) {
	var msg SetMetadataMsg
	if h.update {
		var up UpdateMetadataMsg
		if err := custody.LoadMsg(tx, &up); err != nil {
			return nil, "", errors.Wrap(err, "load msg")
		}
		msg = SetMetadataMsg(up)
	} else if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, "", errors.Wrap(err, "load msg")
	}

	if _, err := loadOwned(ctx, h.auth, db, msg.Instance, msg.Caller); err != nil {
		return nil, "", err
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, "", err
	}
	if int64(len(msg.Metadata)) > conf.MaxMetadataLength {
		return nil, "", errors.Wrapf(errors.ErrInvalidArgument, "metadata longer than %d bytes", conf.MaxMetadataLength)
	}

	var old Offering
	switch err := offerings.One(db, subKey(msg.Instance, msg.OfferingID), &old); {
	case err == nil:
	case errors.ErrNotFound.Is(err):
		if h.update {
			return nil, "", errors.Wrapf(err, "offering %q", msg.OfferingID)
		}
	default:
		return nil, "", err
	}
	return &msg, old.Metadata, nil
}

// SetSettlementHandler records the settlement address of the vault.
type SetSettlementHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = SetSettlementHandler{}

func (h SetSettlementHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h SetSettlementHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	v.Settlement = msg.Settlement
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventSetSettlement,
		SetSettlementEvent{Settlement: msg.Settlement},
		msg.Caller))
	return res, nil
}

func (h SetSettlementHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetSettlementMsg, *Vault, error) {
	var msg SetSettlementMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := loadOwned(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// TransferOwnershipHandler hands the vault over to a new owner.
type TransferOwnershipHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = TransferOwnershipHandler{}

func (h TransferOwnershipHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h TransferOwnershipHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventTransferOwnership,
		TransferOwnershipEvent{OldOwner: v.Owner, NewOwner: msg.NewOwner},
		v.Owner, msg.NewOwner))
	v.Owner = msg.NewOwner
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	return res, nil
}

func (h TransferOwnershipHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*TransferOwnershipMsg, *Vault, error) {
	var msg TransferOwnershipMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := loadVault(db, msg.Instance)
	if err != nil {
		return nil, nil, err
	}
	if err := x.Authenticate(ctx, h.auth, v.Owner); err != nil {
		return nil, nil, err
	}
	if msg.NewOwner.Equals(v.Owner) {
		return nil, nil, errors.Wrap(errors.ErrInvalidArgument, "new owner is the current owner")
	}
	return &msg, v, nil
}

// SetAdminHandler replaces the admin of the vault.
type SetAdminHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = SetAdminHandler{}

func (h SetAdminHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h SetAdminHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	v.Admin = msg.NewAdmin
	if err := saveVault(db, msg.Instance, v); err != nil {
		return nil, errors.Wrap(err, "save vault")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventSetAdmin, SetAdminEvent{NewAdmin: msg.NewAdmin}, msg.Caller, msg.NewAdmin))
	return res, nil
}

func (h SetAdminHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetAdminMsg, *Vault, error) {
	var msg SetAdminMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	return &msg, v, nil
}

// DistributeHandler pays tokens out of the vault custody. The metered
// balance is not changed.
type DistributeHandler struct {
	auth    x.Authenticator
	control cash.Controller
}

var _ custody.Handler = DistributeHandler{}

func (h DistributeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h DistributeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, v, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(db, v.Token, CustodyAddress(msg.Instance), msg.To, msg.Amount); err != nil {
		return nil, errors.Wrapf(err, "pay %s", msg.To)
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventDistribute, DistributeEvent{Amount: msg.Amount}, msg.To))
	return res, nil
}

func (h DistributeHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*DistributeMsg, *Vault, error) {
	var msg DistributeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	v, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Amount.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "distribution must be positive")
	}
	if v.Token == "" {
		return nil, nil, errors.Wrapf(errors.ErrInvalidState, "vault %X holds no token", msg.Instance)
	}
	available, err := h.control.Balance(db, v.Token, CustodyAddress(msg.Instance))
	if err != nil {
		return nil, nil, errors.Wrap(err, "custody balance")
	}
	if available.LT(msg.Amount) {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientBalance, "custody holds %s, needs %s", available, msg.Amount)
	}
	return &msg, v, nil
}

func loadAdministered(ctx custody.Context, auth x.Authenticator, db custody.KVStore, instance []byte, caller custody.Address) (*Vault, error) {
	if err := x.Authenticate(ctx, auth, caller); err != nil {
		return nil, err
	}
	v, err := loadVault(db, instance)
	if err != nil {
		return nil, err
	}
	if err := x.RequireRole(caller, v.Admin); err != nil {
		return nil, err
	}
	return v, nil
}

// loadOwned authenticates the caller, loads the vault and ensures the
// caller is its owner.
func loadOwned(ctx custody.Context, auth x.Authenticator, db custody.KVStore, instance []byte, caller custody.Address) (*Vault, error) {
	if err := x.Authenticate(ctx, auth, caller); err != nil {
		return nil, err
	}
	v, err := loadVault(db, instance)
	if err != nil {
		return nil, err
	}
	if err := x.RequireRole(caller, v.Owner); err != nil {
		return nil, err
	}
	return v, nil
}
