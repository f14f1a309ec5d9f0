package custody

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/callora/custody/errors"
)

var (
	// AddressLength is fixed for the lifetime of a chain, every stored
	// owner and payee depends on it.
	AddressLength = 20

	// AddressPrefix is the human readable part of bech32 addresses.
	AddressPrefix = "cust"

	// (?s) lets the data section contain newlines.
	perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition names who may authorize an action, formatted as
// "<extension>/<type>/<data>". A signature condition is
// "sigs/ed25519/<public key>" and the custody account of a revenue pool
// is "revpool/custody/<instance>".
type Condition []byte

// NewCondition builds a condition out of its three sections.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse splits the condition into its sections.
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.ErrInvalidArgument.Newf("condition: %X", []byte(c))
	}
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

func (c Condition) Address() Address {
	return NewAddress(c)
}

func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String prints the data section in hex.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.ErrInvalidArgument.Newf("condition: %X", []byte(c))
	}
	return nil
}

func (c Condition) MarshalJSON() ([]byte, error) {
	var serialized string
	if c != nil {
		serialized = c.String()
	}
	return json.Marshal(serialized)
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	return c.deserialize(enc)
}

// deserialize reverses String.
func (c *Condition) deserialize(source string) error {
	if len(source) == 0 {
		*c = nil
		return nil
	}

	args := strings.Split(source, "/")
	if len(args) != 3 {
		return errors.ErrInvalidArgument.Newf("invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return errors.ErrInvalidArgument.Newf("malformed condition data: %s", err)
	}
	*c = NewCondition(args[0], args[1], data)
	return nil
}

// Address is the truncated sha256 digest of a Condition. Vault owners,
// pool admins and payees are all identified by an Address.
type Address []byte

func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// MarshalJSON encodes the address as upper case hex instead of base64.
func (a Address) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(a))
	return json.Marshal(s)
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// addressDecoders maps the prefix of an encoded address to its decoder.
// An address without a prefix is hex encoded.
var addressDecoders = map[string]func(string) (Address, error){
	"hex":    decodeHexAddress,
	"cond":   decodeConditionAddress,
	"bech32": decodeBech32Address,
}

// ParseAddress decodes an address from plain hex, "hex:<hex>",
// "cond:<ext>/<type>/<hex data>" or "bech32:<bech32>". An empty value
// decodes to a nil address.
func ParseAddress(enc string) (Address, error) {
	format, payload, found := strings.Cut(enc, ":")
	if !found {
		format, payload = "hex", enc
	}
	if payload == "" {
		return nil, nil
	}
	decode, ok := addressDecoders[format]
	if !ok {
		return nil, errors.ErrInvalidType.Newf("unknown address format %q", format)
	}
	addr, err := decode(payload)
	if err != nil {
		return nil, err
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func decodeHexAddress(enc string) (Address, error) {
	raw, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "cannot decode hex")
	}
	return raw, nil
}

func decodeConditionAddress(enc string) (Address, error) {
	var c Condition
	if err := c.deserialize(enc); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c.Address(), nil
}

func decodeBech32Address(enc string) (Address, error) {
	_, payload, err := bech32.Decode(enc)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "deserialize bech32: %s", err)
	}
	raw, err := bech32.ConvertBits(payload, 5, 8, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "convert bech32 payload: %s", err)
	}
	return raw, nil
}

func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the bech32 representation of this address using
// AddressPrefix as the human readable part.
func (a Address) Bech32() (string, error) {
	data, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	s, err := bech32.Encode(AddressPrefix, data)
	if err != nil {
		return "", errors.Wrap(errors.ErrInvalidArgument, err.Error())
	}
	return s, nil
}

func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInvalidArgument.Newf("address: %v", a)
	}
	return nil
}

// NewAddress returns nil for nil data.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

// ContainsAddress returns true if addr is one of the given addresses.
func ContainsAddress(addrs []Address, addr Address) bool {
	for _, a := range addrs {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}
