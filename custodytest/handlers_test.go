package custodytest

import (
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerResults(t *testing.T) {
	h := Handler{
		CheckErr:      errors.ErrUnauthorized,
		DeliverResult: custody.DeliverResult{Log: "done"},
	}

	_, err := h.Check(nil, nil, nil)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	res, err := h.Deliver(nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Log)
	assert.Equal(t, 2, h.CallCount())
}

func TestWriteHandler(t *testing.T) {
	db := store.MemStore()
	h := WriteHandler{Key: []byte("k"), Value: []byte("v"), Err: errors.ErrHuman}

	_, err := h.Deliver(nil, db, nil)
	assert.True(t, errors.ErrHuman.Is(err))

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestPanicHandler(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = PanicHandler{Value: "boom"}.Deliver(nil, nil, nil)
	})
}

func TestSequenceID(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, SequenceID(1))
}
