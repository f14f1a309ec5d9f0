package settlement

import (
	"strconv"

	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	EventInit            = "init"
	EventPaymentReceived = "payment_received"
	EventBalanceCredited = "balance_credited"
	EventSetAdmin        = "set_admin"
	EventSetVault        = "set_vault"
)

// InitEvent is emitted when the settlement is created. Admin and vault
// are the event participants.
type InitEvent struct {
	LastUpdated custody.UnixTime
}

func (e InitEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("last_updated", e.LastUpdated.String())}
}

// PaymentReceivedEvent is emitted for every payment, whatever its target.
type PaymentReceivedEvent struct {
	Amount coin.Amount
	ToPool bool
	// Developer is nil when the pool was credited.
	Developer custody.Address
}

func (e PaymentReceivedEvent) Attributes() []common.KVPair {
	attrs := []common.KVPair{
		custody.Attr("amount", e.Amount.String()),
		custody.Attr("to_pool", strconv.FormatBool(e.ToPool)),
	}
	if e.Developer != nil {
		attrs = append(attrs, custody.Attr("developer", e.Developer.String()))
	}
	return attrs
}

// BalanceCreditedEvent follows a payment credited to a developer.
type BalanceCreditedEvent struct {
	Amount     coin.Amount
	NewBalance coin.Amount
}

func (e BalanceCreditedEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("amount", e.Amount.String()),
		custody.Attr("new_balance", e.NewBalance.String()),
	}
}

// RoleChangedEvent is emitted when the admin or the vault is replaced.
type RoleChangedEvent struct {
	Old custody.Address
	New custody.Address
}

func (e RoleChangedEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("old", e.Old.String()),
		custody.Attr("new", e.New.String()),
	}
}
