package sigs

import (
	"github.com/callora/custody"
	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
)

// StdTx is a mock of a signed transaction.
type StdTx struct {
	custodytest.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	msg := &custodytest.Msg{RoutePath: "test/msg", Serialized: payload}
	return &StdTx{Tx: custodytest.Tx{Msg: msg}}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	m, ok := msg.(custody.Marshaller)
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "not serializable")
	}
	return m.Marshal()
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []custody.Condition
}

var _ custody.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx custody.Context, store custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &custody.DeliverResult{}, nil
}
