package server

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
	"github.com/callora/custody/store"
	"github.com/callora/custody/x/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestParseStartFlags(t *testing.T) {
	opts, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, "tcp://localhost:26658", opts.addr)
	assert.Empty(t, opts.metrics)
	assert.False(t, opts.debug)

	opts, err = parseFlags([]string{"-metrics", "127.0.0.1:9100", "-debug"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", opts.metrics)
	assert.True(t, opts.debug)

	_, err = parseFlags([]string{"-unknown"})
	assert.True(t, errors.ErrInvalidArgument.Is(err))
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := utils.NewMetrics(reg)
	require.NoError(t, err)
	tx := &custodytest.Tx{Msg: &custodytest.Msg{RoutePath: "revpool/distribute"}}
	_, err = m.Deliver(context.Background(), store.MemStore(), tx, &custodytest.Handler{})
	require.NoError(t, err)

	srv, addr, err := ServeMetrics("127.0.0.1:0", reg, log.NewNopLogger())
	require.NoError(t, err)
	defer srv.Close()

	resp, err := http.Get("http://" + addr.String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `custody_transactions_total{code="ok",mode="deliver",path="revpool/distribute"} 1`)
	assert.Contains(t, string(body), "custody_transaction_duration_seconds_bucket")

	_, _, err = ServeMetrics(addr.String(), reg, log.NewNopLogger())
	assert.True(t, errors.ErrInvalidArgument.Is(err), "port already bound")
}
