package cash

import (
	"github.com/callora/custody"
	"github.com/callora/custody/coin"
	"github.com/tendermint/tendermint/libs/common"
)

// TransferEvent is emitted when a holder sends tokens.
type TransferEvent struct {
	Token  string
	Amount coin.Amount
}

var _ custody.EventData = TransferEvent{}

func (e TransferEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		custody.Attr("token", e.Token),
		custody.Attr("amount", e.Amount.String()),
	}
}
