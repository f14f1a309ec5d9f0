package revpool

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/orm"
	"github.com/callora/custody/x"
	"github.com/callora/custody/x/cash"
	amino "github.com/tendermint/go-amino"
)

// RegisterRoutes will instantiate and register all handlers in this
// package. Tokens are moved using the given cash controller.
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control cash.Controller) {
	r.Handle(InitMsg{}.Path(), InitHandler{auth: auth})
	r.Handle(DistributeMsg{}.Path(), DistributeHandler{auth: auth, control: control})
	r.Handle(BatchDistributeMsg{}.Path(), BatchDistributeHandler{auth: auth, control: control})
	r.Handle(ReceivePaymentMsg{}.Path(), ReceivePaymentHandler{auth: auth})
	r.Handle(SetAdminMsg{}.Path(), SetAdminHandler{auth: auth})
}

// RegisterQuery exposes the pools bucket as "/revpools".
func RegisterQuery(qr custody.QueryRouter) {
	pools.Register("revpools", qr)
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(&InitMsg{}, "revpool/InitMsg", nil)
	cdc.RegisterConcrete(&DistributeMsg{}, "revpool/DistributeMsg", nil)
	cdc.RegisterConcrete(&BatchDistributeMsg{}, "revpool/BatchDistributeMsg", nil)
	cdc.RegisterConcrete(&ReceivePaymentMsg{}, "revpool/ReceivePaymentMsg", nil)
	cdc.RegisterConcrete(&SetAdminMsg{}, "revpool/SetAdminMsg", nil)
}

// InitHandler creates a revenue pool.
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
	if err := savePool(db, msg.Instance, &Pool{Admin: msg.Admin, Token: msg.Token}); err != nil {
		return nil, errors.Wrap(err, "save pool")
	}
	res := &custody.DeliverResult{Data: CustodyAddress(msg.Instance)}
	res.Emit(custody.NewEvent(EventInit, InitEvent{Token: msg.Token}, msg.Admin))
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
	if ok, err := pools.Has(db, orm.InstancePrefix(msg.Instance)); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrAlreadyInitialized, "revenue pool %X", msg.Instance)
	}
	return &msg, nil
}

// DistributeHandler pays a single developer.
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
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := &custody.DeliverResult{}
	payment := Payment{To: msg.To, Amount: msg.Amount}
	if err := pay(db, h.control, msg.Instance, p.Token, payment, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (h DistributeHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*DistributeMsg, *Pool, error) {
	var msg DistributeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	if !msg.Amount.IsPositive() {
		return nil, nil, errors.Wrap(errors.ErrInvalidAmount, "distribution must be positive")
	}
	available, err := h.control.Balance(db, p.Token, CustodyAddress(msg.Instance))
	if err != nil {
		return nil, nil, errors.Wrap(err, "custody balance")
	}
	if available.LT(msg.Amount) {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientBalance, "custody holds %s, needs %s", available, msg.Amount)
	}
	return &msg, p, nil
}

// pay transfers a single payment out of custody and emits its event into
// the result.
func pay(db custody.KVStore, control cash.Controller, instance []byte, token string, p Payment, res *custody.DeliverResult) error {
	if err := control.Transfer(db, token, CustodyAddress(instance), p.To, p.Amount); err != nil {
		return errors.Wrapf(err, "pay %s", p.To)
	}
	res.Emit(custody.NewEvent(EventDistribute, DistributeEvent{Amount: p.Amount}, p.To))
	return nil
}

// BatchDistributeHandler pays many developers in a single, all or
// nothing, operation.
type BatchDistributeHandler struct {
	auth    x.Authenticator
	control cash.Controller
}

var _ custody.Handler = BatchDistributeHandler{}

func (h BatchDistributeHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h BatchDistributeHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := &custody.DeliverResult{}
	for _, payment := range msg.Payments {
		if err := pay(db, h.control, msg.Instance, p.Token, payment, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (h BatchDistributeHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*BatchDistributeMsg, *Pool, error) {
	var msg BatchDistributeMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, nil, err
	}
	switch n := int64(len(msg.Payments)); {
	case n == 0:
		return nil, nil, errors.Wrap(errors.ErrInvalidArgument, "empty batch")
	case n > conf.MaxBatchSize:
		return nil, nil, errors.Wrapf(errors.ErrInvalidArgument, "batch of %d exceeds %d payments", n, conf.MaxBatchSize)
	}

	available, err := h.control.Balance(db, p.Token, CustodyAddress(msg.Instance))
	if err != nil {
		return nil, nil, errors.Wrap(err, "custody balance")
	}
	total := coin.ZeroAmount()
	for i, payment := range msg.Payments {
		if !payment.Amount.IsPositive() {
			return nil, nil, errors.Wrapf(errors.ErrInvalidAmount, "payment %d must be positive", i)
		}
		if total, err = total.Add(payment.Amount); err != nil {
			return nil, nil, errors.Wrapf(err, "payment %d", i)
		}
		if available.LT(total) {
			return nil, nil, errors.Wrapf(errors.ErrInsufficientBalance, "custody holds %s, payments up to %d need %s", available, i, total)
		}
	}
	return &msg, p, nil
}

// ReceivePaymentHandler records that a payment reached the pool. The
// funds themselves arrive by a token transfer to the custody address.
type ReceivePaymentHandler struct {
	auth x.Authenticator
}

var _ custody.Handler = ReceivePaymentHandler{}

func (h ReceivePaymentHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

func (h ReceivePaymentHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventReceivePayment,
		ReceivePaymentEvent{Amount: msg.Amount, FromVault: msg.FromVault},
		msg.Caller))
	return res, nil
}

func (h ReceivePaymentHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ReceivePaymentMsg, error) {
	var msg ReceivePaymentMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller); err != nil {
		return nil, err
	}
	if !msg.Amount.IsPositive() {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "payment must be positive")
	}
	return &msg, nil
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
	msg, p, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	p.Admin = msg.NewAdmin
	if err := savePool(db, msg.Instance, p); err != nil {
		return nil, errors.Wrap(err, "save pool")
	}
	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent(EventSetAdmin, SetAdminEvent{NewAdmin: msg.NewAdmin}, msg.Caller, msg.NewAdmin))
	return res, nil
}

func (h SetAdminHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SetAdminMsg, *Pool, error) {
	var msg SetAdminMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	p, err := loadAdministered(ctx, h.auth, db, msg.Instance, msg.Caller)
	if err != nil {
		return nil, nil, err
	}
	return &msg, p, nil
}

func loadAdministered(ctx custody.Context, auth x.Authenticator, db custody.KVStore, instance []byte, caller custody.Address) (*Pool, error) {
	if err := x.Authenticate(ctx, auth, caller); err != nil {
		return nil, err
	}
	p, err := loadPool(db, instance)
	if err != nil {
		return nil, err
	}
	if err := x.RequireRole(caller, p.Admin); err != nil {
		return nil, err
	}
	return p, nil
}
