package cash

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/x"
	amino "github.com/tendermint/go-amino"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control Controller) {
	r.Handle(SendMsg{}.Path(), NewSendHandler(auth, control))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(&SendMsg{}, "cash/SendMsg", nil)
}

// SendHandler will handle sending tokens
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check just verifies it is properly formed and signed by the source.
// Funds are only checked on delivery.
func (h SendHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{}, nil
}

// Deliver moves the tokens from source to destination if
// all preconditions are met
func (h SendHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(store, msg.Token, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, err
	}

	res := &custody.DeliverResult{}
	res.Emit(custody.NewEvent("transfer",
		TransferEvent{Token: msg.Token, Amount: msg.Amount},
		msg.Source, msg.Destination))
	return res, nil
}

func (h SendHandler) validate(ctx custody.Context, tx custody.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if err := x.Authenticate(ctx, h.auth, msg.Source); err != nil {
		return nil, err
	}
	return &msg, nil
}
