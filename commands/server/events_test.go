package server

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

type amountEvent struct{ amount string }

func (e amountEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("amount", e.amount)}
}

func TestEventsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	j, err := journal.Open(path)
	require.NoError(t, err)
	err = j.Publish(3, []custody.Event{
		custody.NewEvent("deposit", amountEvent{amount: "10"}),
		custody.NewEvent("deduct", amountEvent{amount: "4"}),
		custody.NewEvent("deposit", amountEvent{amount: "7"}),
	})
	require.NoError(t, err)
	require.NoError(t, j.Close())

	records := func(args ...string) []journal.Record {
		t.Helper()
		var out bytes.Buffer
		require.NoError(t, EventsCmd(path, &out, args))
		var recs []journal.Record
		for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
			if line == "" {
				continue
			}
			var r journal.Record
			require.NoError(t, json.Unmarshal([]byte(line), &r))
			recs = append(recs, r)
		}
		return recs
	}

	all := records()
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Height)
	assert.Equal(t, "deduct", all[1].Name)

	deposits := records("-name", "deposit")
	require.Len(t, deposits, 2)
	assert.Equal(t, []journal.Attribute{{Key: "amount", Value: "7"}}, deposits[1].Attributes)

	tail := records("-from", "3")
	require.Len(t, tail, 1)
	assert.Equal(t, uint64(3), tail[0].Sequence)
}
