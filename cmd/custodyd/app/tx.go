package app

import (
	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/x/cash"
	"github.com/callora/custody/x/revpool"
	"github.com/callora/custody/x/settlement"
	"github.com/callora/custody/x/sigs"
	"github.com/callora/custody/x/vault"
	amino "github.com/tendermint/go-amino"
)

// cdc encodes transactions. Every message of every extension is registered
// under its own name, so that the envelope can carry any of them.
var cdc = MakeCodec()

// MakeCodec returns a codec with all messages of the application
// registered.
func MakeCodec() *amino.Codec {
	c := amino.NewCodec()
	c.RegisterInterface((*custody.Msg)(nil), nil)
	cash.RegisterCodec(c)
	vault.RegisterCodec(c)
	settlement.RegisterCodec(c)
	revpool.RegisterCodec(c)
	c.Seal()
	return c
}

// Tx is the transaction envelope: a single message and the signatures
// authorizing it.
type Tx struct {
	Msg        custody.Msg           `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

var _ sigs.SignedTx = (*Tx)(nil)
var _ custody.Persistent = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the message carried by the transaction.
func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures returns the signatures on the Tx
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign: the encoded transaction without
// its signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

func (tx *Tx) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(tx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, err.Error())
	}
	return bz, nil
}

func (tx *Tx) Unmarshal(bz []byte) error {
	if len(bz) == 0 {
		return errors.Wrap(errors.ErrInvalidMsg, "empty transaction")
	}
	if err := cdc.UnmarshalBinaryBare(bz, tx); err != nil {
		return errors.Wrap(errors.ErrInvalidMsg, err.Error())
	}
	return nil
}
