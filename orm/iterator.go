package orm

import (
	"bytes"

	"github.com/callora/custody"
	"github.com/callora/custody/errors"
)

// ModelIterator walks over models stored in a bucket. Models are decoded one
// by one, only when requested.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
type ModelIterator interface {
	// LoadNext moves the iterator to the next sequential key in the database and
	// loads the current value into the passed destination. It returns the
	// primary key of the loaded model, without the bucket prefix.
	// Once exhausted errors.ErrIteratorDone is returned.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the Iterator.
	Release()
}

type modelIterator struct {
	// this is the raw KVStoreIterator
	iterator custody.Iterator
	// this is the bucketPrefix to strip from each key
	bucketPrefix []byte
}

var _ ModelIterator = (*modelIterator)(nil)

func (i *modelIterator) LoadNext(dest Model) ([]byte, error) {
	key, value, err := i.iterator.Next()
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(key, i.bucketPrefix) {
		return nil, errors.Wrapf(errors.ErrDatabase, "key %X outside of the bucket", key)
	}
	if err := dest.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidModel, "cannot unmarshal into %T: %s", dest, err)
	}
	return key[len(i.bucketPrefix):], nil
}

func (i *modelIterator) Release() {
	i.iterator.Release()
}
