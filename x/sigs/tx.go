package sigs

import (
	"github.com/callora/custody"
	"github.com/callora/custody/crypto"
	"github.com/callora/custody/errors"
	amino "github.com/tendermint/go-amino"
)

// SignedTx represents a transaction that contains signatures,
// which can be verified by the sigs.Decorator
type SignedTx interface {
	custody.Tx

	// GetSignBytes returns the canonical byte representation of the Msg.
	GetSignBytes() ([]byte, error)

	// GetSignatures returns the signature of signers who signed the Msg.
	GetSignatures() []*StdSignature
}

// StdSignature binds a signature to the public key that produced it and to
// the sequence of that key at signing time.
type StdSignature struct {
	Pubkey    crypto.PublicKey `json:"pubkey"`
	Signature crypto.Signature `json:"signature"`
	Sequence  int64            `json:"sequence"`
}

// Validate ensures the StdSignature meets basic standards
func (s *StdSignature) Validate() error {
	if s.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if len(s.Pubkey.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthenticated, "missing public key")
	}
	if len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrUnauthenticated, "missing signature")
	}
	return nil
}

func (s *StdSignature) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(s)
}

func (s *StdSignature) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, s)
}
