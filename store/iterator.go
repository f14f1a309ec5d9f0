package store

import (
	"bytes"

	"github.com/callora/custody/errors"
)

// itemIter combines a snapshot of the cached items with the iterator of
// the parent store. Cached items take precedence over the parent when
// both hold the same key and deleted items hide the parent value.
type itemIter struct {
	items   []cacheItem
	idx     int
	parent  Iterator
	reverse bool

	// one element lookahead of the parent iterator
	peeked     bool
	parentDone bool
	pKey, pVal []byte
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []cacheItem, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next returns the next visible key value pair.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.peekParent(); err != nil {
			return nil, nil, err
		}
		hasOwn := i.idx < len(i.items)

		switch {
		case !hasOwn && i.parentDone:
			return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
		case !hasOwn:
			return i.takeParent()
		case i.parentDone:
			if item := i.takeOwn(); !item.deleted {
				return item.key, item.value, nil
			}
		default:
			cmp := bytes.Compare(i.pKey, i.items[i.idx].key)
			if i.reverse {
				cmp = -cmp
			}
			if cmp < 0 {
				return i.takeParent()
			}
			if cmp == 0 {
				// the cached value overrides the parent one
				i.peeked = false
			}
			if item := i.takeOwn(); !item.deleted {
				return item.key, item.value, nil
			}
		}
	}
}

func (i *itemIter) peekParent() error {
	if i.peeked || i.parentDone {
		return nil
	}
	k, v, err := i.parent.Next()
	switch {
	case errors.ErrIteratorDone.Is(err):
		i.parentDone = true
		return nil
	case err != nil:
		return err
	}
	i.pKey, i.pVal, i.peeked = k, v, true
	return nil
}

func (i *itemIter) takeParent() ([]byte, []byte, error) {
	i.peeked = false
	return i.pKey, i.pVal, nil
}

func (i *itemIter) takeOwn() cacheItem {
	item := i.items[i.idx]
	i.idx++
	return item
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.items = nil
}
