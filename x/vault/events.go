package vault

import (
	"strconv"

	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/tendermint/tendermint/libs/common"
)

// Names of the events emitted by this extension.
const (
	EventInit              = "init"
	EventAllowedDepositor  = "allowed_depositor"
	EventDeposit           = "deposit"
	EventDeduct            = "deduct"
	EventPause             = "pause"
	EventUnpause           = "unpause"
	EventSetPrice          = "set_price"
	EventMetadataSet       = "metadata_set"
	EventMetadataUpdated   = "metadata_updated"
	EventSetSettlement     = "set_settlement"
	EventTransferOwnership = "transfer_ownership"
	EventSetAdmin          = "set_admin"
	EventDistribute        = "distribute"
)

// InitEvent is emitted once, when the vault is created.
type InitEvent struct {
	Balance    coin.Amount
	MinDeposit coin.Amount
}

func (e InitEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("balance", e.Balance.String()),
		custody.Attr("min_deposit", e.MinDeposit.String()),
	}
}

// AllowedDepositorEvent is emitted when a depositor is allowed or when
// the whole list is cleared.
type AllowedDepositorEvent struct {
	Depositor custody.Address
	Cleared   bool
}

func (e AllowedDepositorEvent) Attributes() []common.KVPair {
	attrs := []common.KVPair{custody.Attr("cleared", strconv.FormatBool(e.Cleared))}
	if e.Depositor != nil {
		attrs = append(attrs, custody.Attr("depositor", e.Depositor.String()))
	}
	return attrs
}

// DepositEvent is emitted when the vault is credited.
type DepositEvent struct {
	Amount     coin.Amount
	NewBalance coin.Amount
}

func (e DepositEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("amount", e.Amount.String()),
		custody.Attr("new_balance", e.NewBalance.String()),
	}
}

// DeductEvent is emitted for every metered deduction.
type DeductEvent struct {
	Amount     coin.Amount
	RequestID  string
	NewBalance coin.Amount
}

func (e DeductEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("amount", e.Amount.String()),
		custody.Attr("request_id", e.RequestID),
		custody.Attr("new_balance", e.NewBalance.String()),
	}
}

// PauseEvent is emitted by both pause and unpause.
type PauseEvent struct {
	Paused bool
}

func (e PauseEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("paused", strconv.FormatBool(e.Paused))}
}

// SetPriceEvent is emitted when an API price is set.
type SetPriceEvent struct {
	APIID string
	Price coin.Amount
}

func (e SetPriceEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("api_id", e.APIID),
		custody.Attr("price", e.Price.String()),
	}
}

// MetadataEvent is emitted when offering metadata is set or updated.
type MetadataEvent struct {
	OfferingID string
	OldValue   string
	NewValue   string
}

func (e MetadataEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("offering_id", e.OfferingID),
		custody.Attr("old_value", e.OldValue),
		custody.Attr("new_value", e.NewValue),
	}
}

// SetSettlementEvent is emitted when the settlement address changes.
type SetSettlementEvent struct {
	Settlement custody.Address
}

func (e SetSettlementEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("settlement", e.Settlement.String())}
}

// TransferOwnershipEvent is emitted before the owner is replaced.
type TransferOwnershipEvent struct {
	OldOwner custody.Address
	NewOwner custody.Address
}

func (e TransferOwnershipEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("old_owner", e.OldOwner.String()),
		custody.Attr("new_owner", e.NewOwner.String()),
	}
}

// SetAdminEvent is emitted when the admin is replaced.
type SetAdminEvent struct {
	NewAdmin custody.Address
}

func (e SetAdminEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("new_admin", e.NewAdmin.String())}
}

// DistributeEvent is emitted for every payout. The recipient is the
// event participant.
type DistributeEvent struct {
	Amount coin.Amount
}

func (e DistributeEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("amount", e.Amount.String())}
}
