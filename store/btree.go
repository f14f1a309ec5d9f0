package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the node free list shared by nested caches.
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable gives any KVStore a btree backed CacheWrap.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore is an empty in-memory store without persistence.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser lists the operations recorded by LogableStore in order.
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns an in-memory store that records every write.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	kv := NewBTreeCacheWrap(e, b, nil)
	return kv, b
}

// BTreeCacheWrap keeps the writes of a transaction or a block in a btree
// until they are written to the backing store or discarded.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap caches over kv. Writes only reach kv through batch.
// A nil free list allocates a new one.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap nests another cache on top of this one, sharing its free
// list. The nested writes land here on Write.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the batch and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops every cached write. The nodes go back to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
}

// Set records the value in the cache and queues it for Write.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete hides key from reads until the cache is discarded, and queues
// the deletion for Write.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(cacheItem{key: key, deleted: true})
	return b.batch.Delete(key)
}

func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if item, ok := b.cached(key); ok {
		if item.deleted {
			return nil, nil
		}
		return item.value, nil
	}
	return b.back.Get(key)
}

func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if item, ok := b.cached(key); ok {
		return !item.deleted, nil
	}
	return b.back.Has(key)
}

func (b BTreeCacheWrap) cached(key []byte) (cacheItem, bool) {
	found := b.bt.Get(cacheItem{key: key})
	if found == nil {
		return cacheItem{}, false
	}
	return found.(cacheItem), true
}

// Iterator merges the cached writes in [start, end) with the backing
// store, in ascending key order.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newItemIter(b.snapshot(start, end), parent, false), nil
}

// ReverseIterator is Iterator in descending key order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := b.snapshot(start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newItemIter(items, parent, true), nil
}

// snapshot copies the cached items within [start, end) in ascending
// order, so that writes during iteration do not affect it. A nil bound
// leaves that side open.
func (b BTreeCacheWrap) snapshot(start, end []byte) []cacheItem {
	var items []cacheItem
	collect := func(item btree.Item) bool {
		items = append(items, item.(cacheItem))
		return true
	}
	lo, hi := cacheItem{key: start}, cacheItem{key: end}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(hi, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(lo, collect)
	default:
		b.bt.AscendRange(lo, hi, collect)
	}
	return items
}

// cacheItem is a pending write. A deleted item shadows the value of the
// backing store.
type cacheItem struct {
	key     []byte
	value   []byte
	deleted bool
}

var _ btree.Item = cacheItem{}

func (c cacheItem) Less(than btree.Item) bool {
	return bytes.Compare(c.key, than.(cacheItem).key) < 0
}
