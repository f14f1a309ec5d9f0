/*
Package journal keeps the audit trail of committed events in a bbolt
database, so that operators can read it back without replaying the chain.

Every event is stored as a Record under a big-endian sequence number, in the
order it was published.
*/
package journal

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
	amino "github.com/tendermint/go-amino"
	"go.etcd.io/bbolt"
)

var bucketEvents = []byte("events")

// lockTimeout bounds the wait for the file lock held by another process.
const lockTimeout = time.Second

// Record is the stored form of a single event.
type Record struct {
	Sequence     uint64            `json:"sequence"`
	Height       int64             `json:"height"`
	Name         string            `json:"name"`
	Participants []custody.Address `json:"participants"`
	Attributes   []Attribute       `json:"attributes"`
}

// Attribute is a single key value pair of the event payload.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Topics returns the topic tuple of the recorded event.
func (r Record) Topics() []string {
	topics := make([]string, 0, len(r.Participants)+1)
	topics = append(topics, r.Name)
	for _, p := range r.Participants {
		topics = append(topics, p.String())
	}
	return topics
}

// Journal is an append only event log.
type Journal struct {
	db *bbolt.DB
}

// Open opens or creates the journal database at path. The parent directory
// is created if it does not exist.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create directory: %s", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open journal: %s", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketEvents)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "create bucket: %s", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Publish appends all events of a committed block. Either all of them are
// stored or none is.
func (j *Journal) Publish(height int64, events []custody.Event) error {
	return j.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketEvents)
		for _, e := range events {
			seq, err := b.NextSequence()
			if err != nil {
				return errors.Wrap(errors.ErrDatabase, err.Error())
			}
			rec := newRecord(seq, height, e)
			raw, err := amino.MarshalBinaryBare(rec)
			if err != nil {
				return errors.Wrapf(errors.ErrInvalidType, "encode %s event: %s", e.Name, err)
			}
			if err := b.Put(seqKey(seq), raw); err != nil {
				return errors.Wrap(errors.ErrDatabase, err.Error())
			}
		}
		return nil
	})
}

// Iterate calls fn for every record with a sequence not lower than from,
// in publication order. Iteration stops at the first error returned by fn.
func (j *Journal) Iterate(from uint64, fn func(Record) error) error {
	return j.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketEvents).Cursor()
		for k, v := c.Seek(seqKey(from)); k != nil; k, v = c.Next() {
			var rec Record
			if err := amino.UnmarshalBinaryBare(v, &rec); err != nil {
				return errors.Wrapf(errors.ErrInvalidType, "decode record %d: %s", binary.BigEndian.Uint64(k), err)
			}
			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Last returns the sequence of the most recent record, or zero if the
// journal is empty.
func (j *Journal) Last() (uint64, error) {
	var seq uint64
	err := j.db.View(func(tx *bbolt.Tx) error {
		seq = tx.Bucket(bucketEvents).Sequence()
		return nil
	})
	return seq, err
}

func newRecord(seq uint64, height int64, e custody.Event) Record {
	rec := Record{
		Sequence:     seq,
		Height:       height,
		Name:         e.Name,
		Participants: e.Participants,
	}
	if e.Data != nil {
		for _, attr := range e.Data.Attributes() {
			rec.Attributes = append(rec.Attributes, Attribute{
				Key:   string(attr.Key),
				Value: string(attr.Value),
			})
		}
	}
	return rec
}

// seqKey encodes a sequence as a big-endian key for sorted storage.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}
