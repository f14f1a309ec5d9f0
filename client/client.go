/*
Package client talks to a running custodyd node over the tendermint rpc.

Transactions are submitted as encoded bytes, and the application state is
read through the raw store query, so that the query helpers of every
extension work unchanged against a remote node:

	c := client.NewClient(client.NewHTTPConnection("tcp://localhost:26657"))
	balance, err := vault.Balance(c.Store(), instance)
*/
package client

import (
	"context"
	"fmt"

	"github.com/callora/custody"
	"github.com/callora/custody/app"
	"github.com/callora/custody/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	tmquery "github.com/tendermint/tendermint/libs/pubsub/query"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

const txPerPage = 50

// Client is a tendermint client wrapped to provide simple access to the
// custody application.
type Client struct {
	conn rpcclient.Client
}

var _ app.Querier = (*Client)(nil)

// NewClient wraps a Client around an existing tendermint client connection.
func NewClient(conn rpcclient.Client) *Client {
	return &Client{conn: conn}
}

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) rpcclient.Client {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// Store returns a read only view of the committed application state.
func (c *Client) Store() *app.ABCIStore {
	return app.NewABCIStore(c)
}

// Status returns current height and other (subjective) status info from this node
func (c *Client) Status(ctx context.Context) (*Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	status, err := c.conn.Status()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "status: %s", err)
	}
	return &Status{
		Height:     status.SyncInfo.LatestBlockHeight,
		CatchingUp: status.SyncInfo.CatchingUp,
	}, nil
}

// SubmitTx will submit the tx to the mempool and then return with success
// or error. Use WatchTx or SearchTx to get the result.
func (c *Client) SubmitTx(ctx context.Context, tx custody.Marshaller) (TransactionID, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "marshaling: %s", err)
	}
	res, err := c.conn.BroadcastTxSync(tmtypes.Tx(bz))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	// a checktx error means the tx never made it into the mempool
	if res.Code != 0 {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx submits the tx and blocks until it is included in a block. An
// error is returned if the tx was rejected by CheckTx or the node. A tx
// that failed in DeliverTx has its error set in the result.
func (c *Client) CommitTx(ctx context.Context, tx custody.Marshaller) (*CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidMsg, "marshaling: %s", err)
	}
	res, err := c.conn.BroadcastTxCommit(tmtypes.Tx(bz))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err)
	}
	if res.CheckTx.Code != 0 {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}
	result, err := app.ParseDeliverOrError(res.DeliverTx)
	return &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
		Result: result,
		Err:    err,
	}, nil
}

// Query is meant to mirror the abci query interface exactly, so we can wrap it with app.ABCIStore
// This will give us state from the application
func (c *Client) Query(query RequestQuery) ResponseQuery {
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, rpcclient.ABCIQueryOptions{Height: query.Height, Prove: query.Prove})
	// network error reported as special error code
	if err != nil {
		err = errors.Wrap(errors.ErrNetwork, err.Error())
		return ResponseQuery{
			Code: errors.Code(err),
			Log:  err.Error(),
		}
	}
	return res.Response
}

// GetTxByID will return 0 or 1 results (nil or result value)
func (c *Client) GetTxByID(ctx context.Context, id TransactionID) (*CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrTimeout, err.Error())
	}
	tx, err := c.conn.Tx(id, false)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "get tx: %s", err)
	}
	return resultTxToCommitResult(tx), nil
}

// SearchTx will search for all committed transactions that match a query,
// returning them as one large array.
func (c *Client) SearchTx(ctx context.Context, query TxQuery) ([]*CommitResult, error) {
	var results []*CommitResult
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrTimeout, err.Error())
		}
		search, err := c.conn.TxSearch(query, false, page, txPerPage)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrNetwork, "search tx: %s", err)
		}
		for _, tx := range search.Txs {
			results = append(results, resultTxToCommitResult(tx))
		}
		if len(search.Txs) < txPerPage || len(results) >= search.TotalCount {
			return results, nil
		}
	}
}

// SubscribeHeaders will fills the channel with all new headers
// Stops when the context is cancelled
func (c *Client) SubscribeHeaders(ctx context.Context, results chan<- Header) error {
	data, err := c.subscribe(ctx, QueryForHeader())
	if err != nil {
		return err
	}

	go func(in <-chan ctypes.ResultEvent) {
		defer close(results)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				val, ok := msg.Data.(tmtypes.EventDataNewBlockHeader)
				if !ok {
					continue
				}
				select {
				case results <- val.Header:
				case <-ctx.Done():
					return
				}
			}
		}
	}(data)

	return nil
}

// SubscribeTx will subscribe to all transactions that match a query, writing them to the
// results channel as they arrive. It returns an error if the subscription request failed.
// Once subscriptions start, the continue until the context is closed (or network error)
func (c *Client) SubscribeTx(ctx context.Context, query TxQuery, results chan<- CommitResult) error {
	q := fmt.Sprintf("%s='%s' AND %s", tmtypes.EventTypeKey, tmtypes.EventTx, query)

	data, err := c.subscribe(ctx, q)
	if err != nil {
		return err
	}

	go func(in <-chan ctypes.ResultEvent) {
		defer close(results)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				val, ok := msg.Data.(tmtypes.EventDataTx)
				if !ok {
					continue
				}
				select {
				case results <- txResultToCommitResult(val.TxResult):
				case <-ctx.Done():
					return
				}
			}
		}
	}(data)

	return nil
}

// WatchTx blocks until the transaction is included in a block. It returns
// immediately if the transaction was committed before the call.
func (c *Client) WatchTx(ctx context.Context, id TransactionID) (*CommitResult, error) {
	subctx, cancel := context.WithCancel(ctx)
	defer cancel()

	txs := make(chan CommitResult, 1)
	if err := c.SubscribeTx(subctx, QueryTxByID(id), txs); err != nil {
		return nil, err
	}

	// the tx may have been committed before the subscription started
	if found, err := c.GetTxByID(ctx, id); err == nil && found != nil {
		return found, nil
	}

	res, ok := <-txs
	if !ok {
		return nil, errors.Wrap(errors.ErrTimeout, "unsubscribed before result")
	}
	return &res, nil
}

// subscribe wraps conn.Subscribe and uses ctx.Done() to trigger the
// unsubscription.
func (c *Client) subscribe(ctx context.Context, query string) (<-chan ctypes.ResultEvent, error) {
	q, err := tmquery.New(query)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "query %q: %s", query, err)
	}

	subscriber := cmn.RandStr(16)
	out, err := c.conn.Subscribe(ctx, subscriber, q.String())
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "subscribe to %q: %s", query, err)
	}
	go func(stop <-chan struct{}, sub, q string) {
		<-stop
		_ = c.conn.Unsubscribe(context.Background(), sub, q)
	}(ctx.Done(), subscriber, q.String())

	return out, nil
}

func resultTxToCommitResult(tx *ctypes.ResultTx) *CommitResult {
	res, err := app.ParseDeliverOrError(tx.TxResult)
	return &CommitResult{
		ID:     tx.Hash,
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}

func txResultToCommitResult(tx tmtypes.TxResult) CommitResult {
	res, err := app.ParseDeliverOrError(tx.Result)
	return CommitResult{
		ID:     tx.Tx.Hash(),
		Height: tx.Height,
		Result: res,
		Err:    err,
	}
}
