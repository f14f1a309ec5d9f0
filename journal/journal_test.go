package journal

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/callora/custody"
	"github.com/callora/custody/app"
	"github.com/callora/custody/custodytest"
	"github.com/callora/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

var _ app.EventSink = (*Journal)(nil)

type amountEvent struct{ Amount string }

func (e amountEvent) Attributes() []common.KVPair {
	return []common.KVPair{custody.Attr("amount", e.Amount)}
}

func openJournal(t *testing.T) (*Journal, string) {
	t.Helper()
	dir, err := ioutil.TempDir("", "journal")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "nested", "events.db")
	j, err := Open(path)
	require.NoError(t, err)
	return j, path
}

func collect(t *testing.T, j *Journal, from uint64) []Record {
	t.Helper()
	var recs []Record
	require.NoError(t, j.Iterate(from, func(r Record) error {
		recs = append(recs, r)
		return nil
	}))
	return recs
}

func TestPublishAndIterate(t *testing.T) {
	j, _ := openJournal(t)
	defer j.Close()

	alice := custodytest.RandomAddr(t)
	bob := custodytest.RandomAddr(t)

	require.NoError(t, j.Publish(3, []custody.Event{
		custody.NewEvent("deposit", amountEvent{Amount: "100"}, alice),
		custody.NewEvent("deduct", amountEvent{Amount: "40"}, bob),
	}))
	require.NoError(t, j.Publish(4, []custody.Event{
		custody.NewEvent("pause", nil, alice),
	}))

	last, err := j.Last()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)

	recs := collect(t, j, 0)
	require.Len(t, recs, 3)

	assert.Equal(t, uint64(1), recs[0].Sequence)
	assert.Equal(t, int64(3), recs[0].Height)
	assert.Equal(t, []string{"deposit", alice.String()}, recs[0].Topics())
	assert.Equal(t, []Attribute{{Key: "amount", Value: "100"}}, recs[0].Attributes)

	assert.Equal(t, "deduct", recs[1].Name)
	assert.Equal(t, "pause", recs[2].Name)
	assert.Equal(t, int64(4), recs[2].Height)
	assert.Empty(t, recs[2].Attributes)

	tail := collect(t, j, 3)
	require.Len(t, tail, 1)
	assert.Equal(t, "pause", tail[0].Name)
}

func TestIterateStopsOnError(t *testing.T) {
	j, _ := openJournal(t)
	defer j.Close()

	require.NoError(t, j.Publish(1, []custody.Event{
		custody.NewEvent("one", nil),
		custody.NewEvent("two", nil),
	}))

	var seen int
	err := j.Iterate(0, func(Record) error {
		seen++
		return errors.ErrHuman
	})
	assert.True(t, errors.ErrHuman.Is(err))
	assert.Equal(t, 1, seen)
}

func TestJournalSurvivesReopen(t *testing.T) {
	j, path := openJournal(t)
	require.NoError(t, j.Publish(1, []custody.Event{custody.NewEvent("init", nil)}))
	require.NoError(t, j.Close())

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Publish(2, []custody.Event{custody.NewEvent("deposit", nil)}))
	recs := collect(t, j, 0)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(2), recs[1].Sequence)
}
