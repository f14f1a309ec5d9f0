package revpool

import (
	"strconv"

	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	EventInit           = "init"
	EventDistribute     = "distribute"
	EventReceivePayment = "receive_payment"
	EventSetAdmin       = "set_admin"
)

// InitEvent is emitted when the pool is created.
type InitEvent struct {
	Token string
}

func (e InitEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("token", e.Token)}
}

// DistributeEvent is emitted for every payout, with the recipient as the
// participant.
type DistributeEvent struct {
	Amount coin.Amount
}

func (e DistributeEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("amount", e.Amount.String())}
}

// ReceivePaymentEvent records a payment announced by the admin.
type ReceivePaymentEvent struct {
	Amount    coin.Amount
	FromVault bool
}

func (e ReceivePaymentEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("amount", e.Amount.String()),
		custody.Attr("from_vault", strconv.FormatBool(e.FromVault)),
	}
}

// SetAdminEvent is emitted when the admin is replaced.
type SetAdminEvent struct {
	NewAdmin custody.Address
}

func (e SetAdminEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("new_admin", e.NewAdmin.String())}
}
