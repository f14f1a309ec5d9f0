package client

import (
	"fmt"

	"github.com/callora/custody"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// RequestQuery is used for the query interface to mirror the abci query interface
type RequestQuery = abci.RequestQuery

// ResponseQuery is used for the query interface to mirror the abci query interface
type ResponseQuery = abci.ResponseQuery

// TxQuery is some query to find transactions
type TxQuery = string

// CommitResult is returned from the block (DeliverTx)
// Result is only set on success codes, Err is set if it was a failure code
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *custody.DeliverResult
	Err    error
}

// Status is the current status of the node we connect to.
type Status struct {
	Height     int64
	CatchingUp bool
}

// Header is a tendermint block header
type Header = tmtypes.Header

// QueryTxByID makes a search query for the transaction with given id.
func QueryTxByID(id TransactionID) TxQuery {
	return fmt.Sprintf("%s='%X'", tmtypes.TxHashKey, id)
}

// QueryTxByAction makes a search query for all transactions with the given
// message path, as tagged by the action tagger.
func QueryTxByAction(path string) TxQuery {
	return fmt.Sprintf("action='%s'", path)
}

// QueryForHeader is a subscription query for all new headers
func QueryForHeader() string {
	return queryForEvent(tmtypes.EventNewBlockHeader)
}

func queryForEvent(eventType string) string {
	return fmt.Sprintf("%s='%s'", tmtypes.EventTypeKey, eventType)
}
