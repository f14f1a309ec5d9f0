// Package crypto provides the key and signature types used to authenticate
// transactions.
package crypto

import (
	"github.com/callora/custody"
	amino "github.com/tendermint/go-amino"
)

// ExtensionName is used for the conditions we get from signatures.
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() custody.Condition
	Address() custody.Address
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// Marshal serializes the key.
func (p *PublicKey) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(p)
}

// Unmarshal loads the key from its binary form.
func (p *PublicKey) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, p)
}

// Address returns the address of the condition this key produces, or nil
// for an empty key.
func (p *PublicKey) Address() custody.Address {
	c := p.Condition()
	if c == nil {
		return nil
	}
	return c.Address()
}

// Marshal serializes the signature.
func (s *Signature) Marshal() ([]byte, error) {
	return amino.MarshalBinaryBare(s)
}

// Unmarshal loads the signature from its binary form.
func (s *Signature) Unmarshal(raw []byte) error {
	return amino.UnmarshalBinaryBare(raw, s)
}
