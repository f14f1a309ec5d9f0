package settlement

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/x"
	amino "github.com/tendermint/go-amino"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r custody.Registry, auth x.Authenticator) {
	r.Handle(InitMsg{}.Path(), InitHandler{auth: auth})
	r.Handle(ReceivePaymentMsg{}.Path(), ReceivePaymentHandler{auth: auth})
	r.Handle(SetAdminMsg{}.Path(), SetAdminHandler{auth: auth})
	r.Handle(SetVaultMsg{}.Path(), SetVaultHandler{auth: auth})
}

// RegisterQuery exposes the buckets as "/settlements" and
// "/devbalances".
func RegisterQuery(qr custody.QueryRouter) {
	settlements.Register("settlements", qr)
	balances.Register("devbalances", qr)
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(&InitMsg{}, "settlement/InitMsg", nil)
	cdc.RegisterConcrete(&ReceivePaymentMsg{}, "settlement/ReceivePaymentMsg", nil)
	cdc.RegisterConcrete(&SetAdminMsg{}, "settlement/SetAdminMsg", nil)
	cdc.RegisterConcrete(&SetVaultMsg{}, "settlement/SetVaultMsg", nil)
}

// InitHandler creates a settlement instance.
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
	now, err := custody.BlockTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	s := &Settlement{
		Admin:       msg.Admin,
		Vault:       msg.Vault,
		LastUpdated: custody.AsUnixTime(now),
	}
	if err := saveSettlement(db, msg.Instance, s); err != nil {
		return nil, errors.Wrap(err, "save settlement")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventInit, InitEvent{LastUpdated: s.LastUpdated}, msg.Admin, msg.Vault))
	return res, nil
}

func (h InitHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*InitMsg, error) {
	var msg InitMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.Authenticate(ctx, h.auth, msg.Admin); err != nil {
		return nil, err
	}
	if ok, err := settlements.Has(db, settlementKey(msg.Instance)); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrAlreadyInitialized, "settlement %X", msg.Instance)
	}
	return &msg, nil
}

// ReceivePaymentHandler credits either the global pool or a developer.
type ReceivePaymentHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = ReceivePaymentHandler{}

func (h ReceivePaymentHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h ReceivePaymentHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	res := &custody.DeliverResult{}
	if msg.ToPool {
		now, err := custody.BlockTime(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "block time")
		}
		total, err := s.TotalBalance.Add(msg.Amount)
		if err != nil {
			return nil, errors.Wrap(err, "pool balance")
		}
		s.TotalBalance = total
		s.LastUpdated = custody.AsUnixTime(now)
		if err := saveSettlement(db, msg.Instance, s); err != nil {
			return nil, errors.Wrap(err, "save settlement")
		}
		res.Emit(custody.NewEvent(EventPaymentReceived,
			PaymentReceivedEvent{Amount: msg.Amount, ToPool: true},
			msg.Caller))
		return res, nil
	}

	b, err := loadBalance(db, msg.Instance, msg.Developer)
	if err != nil {
		return nil, errors.Wrap(err, "load balance")
	}
	credited, err := b.Balance.Add(msg.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "developer balance")
	}
	b.Balance = credited
	if err := balances.Put(db, balanceKey(msg.Instance, msg.Developer), b); err != nil {
		return nil, errors.Wrap(err, "save balance")
	}
	res.Emit(
		custody.NewEvent(EventPaymentReceived,
			PaymentReceivedEvent{Amount: msg.Amount, Developer: msg.Developer},
			msg.Caller),
		custody.NewEvent(EventBalanceCredited,
			BalanceCreditedEvent{Amount: msg.Amount, NewBalance: credited},
			msg.Developer),
	)
	res.Data = []byte(credited.String())
	return res, nil
}

func (h ReceivePaymentHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ReceivePaymentMsg, *Settlement, error) {
	var msg ReceivePaymentMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.Authenticate(ctx, h.auth, msg.Caller); err != nil {
		return nil, nil, err
	}
	s, err := loadSettlement(db, msg.Instance)
	if err != nil {
		return nil, nil, err
	}
	if err := x.RequireOneOf(msg.Caller, s.Vault, s.Admin); err != nil {
		return nil, nil, err
	}
	if !msg.Amount.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "payment must be positive")
	}
	if !msg.ToPool && len(msg.Developer) == 0 {
		return nil, nil, errors.Wrap(errors.ErrMissingPayee, "developer required when not paying the pool")
	}
	return &msg, s, nil
}

// SetAdminHandler replaces the admin.
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
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	old := s.Admin
	s.Admin = msg.NewAdmin
	if err := saveSettlement(db, msg.Instance, s); err != nil {
		return nil, errors.Wrap(err, "save settlement")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventSetAdmin, RoleChangedEvent{Old: old, New: msg.NewAdmin}, old, msg.NewAdmin))
	return res, nil
}

func (h SetAdminHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetAdminMsg, *Settlement, error) {
	var msg SetAdminMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	return &msg, s, nil
}

// SetVaultHandler replaces the vault.
type SetVaultHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = SetVaultHandler{}

func (h SetVaultHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h SetVaultHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, s, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	old := s.Vault
	s.Vault = msg.NewVault
	if err := saveSettlement(db, msg.Instance, s); err != nil {
		return nil, errors.Wrap(err, "save settlement")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventSetVault, RoleChangedEvent{Old: old, New: msg.NewVault}, msg.Caller))
	return res, nil
}

func (h SetVaultHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetVaultMsg, *Settlement, error) {
	var msg SetVaultMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	s, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	return &msg, s, nil
}

func loadAdministered(ctx custody.Context, auth x.Authenticator, db custody.KVStore, instance []byte, caller custody.Address) (*Settlement, error) {
	if err := x.Authenticate(ctx, auth, caller); err != nil {
		return nil, err
	}
	s, err := loadSettlement(db, instance)
	if err != nil {
		return nil, err
	}
	if err := x.RequireRole(caller, s.Admin); err != nil {
		return nil, err
	}
	return s, nil
}
