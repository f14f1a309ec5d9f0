package app

import (
	"sync"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// EventSink receives the events of every committed block, in emission
// order.
type EventSink interface {
	Publish(height int64, events []custody.Event) error
}

// BaseApp adds DeliverTx and CheckTx handlers to the storage and query
// functionality of StoreApp.
//
// Events emitted by successful transactions are kept until the block is
// committed and only then handed to the EventSink. Events of failed
// transactions are never published.
type BaseApp struct {
	*StoreApp
	decoder custody.TxDecoder
	handler custody.Handler
	debug   bool

	mu      sync.Mutex
	sink    EventSink
	height  int64
	pending []custody.Event
}

var _ abci.Application = (*BaseApp)(nil)

// NewBaseApp constructs a basic abci application
func NewBaseApp(
	store *StoreApp,
	decoder custody.TxDecoder,
	handler custody.Handler,
	debug bool,
) *BaseApp {
	return &BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// WithEventSink sets the destination of committed events.
func (b *BaseApp) WithEventSink(sink EventSink) *BaseApp {
	b.sink = sink
	return b
}

// DeliverTx - ABCI - dispatches to the handler
func (b *BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return DeliverTxError(err, b.debug)
	}

	ctx := custody.WithLogInfo(b.BlockContext(),
		"call", "deliver_tx",
		"path", custody.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err == nil {
		b.mu.Lock()
		b.pending = append(b.pending, res.Events...)
		b.mu.Unlock()
	}
	return DeliverOrError(res, err, b.debug)
}

// CheckTx - ABCI - dispatches to the handler
func (b *BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.loadTx(txBytes)
	if err != nil {
		return CheckTxError(err, b.debug)
	}

	ctx := custody.WithLogInfo(b.BlockContext(),
		"call", "check_tx",
		"path", custody.GetPath(tx))

	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return CheckOrError(res, err, b.debug)
}

// BeginBlock - ABCI
func (b *BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	b.mu.Lock()
	b.height = req.Header.Height
	b.mu.Unlock()
	return b.StoreApp.BeginBlock(req)
}

// Commit persists the block state and publishes its events.
func (b *BaseApp) Commit() abci.ResponseCommit {
	res := b.StoreApp.Commit()

	b.mu.Lock()
	events, height := b.pending, b.height
	b.pending = nil
	b.mu.Unlock()

	if b.sink != nil && len(events) > 0 {
		if err := b.sink.Publish(height, events); err != nil {
			b.Logger().Error("Cannot publish events",
				"height", height,
				"count", len(events),
				"err", err)
		}
	}
	return res
}

// loadTx calls the decoder, and capture any panics
func (b *BaseApp) loadTx(txBytes []byte) (tx custody.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = b.decoder(txBytes)
	return
}
