package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/callora/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite runs the behaviour shared by every CacheableKVStore
// implementation against the store built by its constructor. It is used by
// the btree cache tests and by the iavl commit store tests.
type TestSuite struct {
	makeBase TestStoreConstructor
}

// TestStoreConstructor returns a fresh, empty store and a function
// releasing it.
type TestStoreConstructor func() (base CacheableKVStore, cleanup func())

func NewTestSuite(constructor TestStoreConstructor) *TestSuite {
	return &TestSuite{makeBase: constructor}
}

// GetSet checks that writes to a cache are only visible in the base once
// the cache is written, and never after it was discarded.
func (s *TestSuite) GetSet(t *testing.T) {
	base, cleanup := s.makeBase()
	defer cleanup()

	owner, balance := []byte("vault:owner"), []byte("1000")
	s.AssertGetHas(t, base, owner, nil, false)
	require.NoError(t, base.Set(owner, balance))
	s.AssertGetHas(t, base, owner, balance, true)

	cache := base.CacheWrap()
	s.AssertGetHas(t, cache, owner, balance, true)

	payee, credited := []byte("devbal:payee"), []byte("500")
	require.NoError(t, cache.Set(payee, credited))
	s.AssertGetHas(t, cache, payee, credited, true)
	s.AssertGetHas(t, base, payee, nil, false)

	require.NoError(t, cache.Write())
	s.AssertGetHas(t, base, payee, credited, true)

	pool := []byte("revpool:admin")
	discarded := base.CacheWrap()
	require.NoError(t, discarded.Set(pool, []byte("admin")))
	discarded.Discard()
	s.AssertGetHas(t, base, pool, nil, false)

	deleting := base.CacheWrap()
	require.NoError(t, deleting.Delete(owner))
	s.AssertGetHas(t, deleting, owner, nil, false)
	s.AssertGetHas(t, base, owner, balance, true)
	require.NoError(t, deleting.Write())
	s.AssertGetHas(t, base, owner, nil, false)
	s.AssertGetHas(t, base, payee, credited, true)
}

// CacheConflicts checks that a cache shadows the values and the deletions
// of its parent without changing it.
func (s *TestSuite) CacheConflicts(t *testing.T) {
	keys := randModels(rand.New(rand.NewSource(1)), 4, 16, 32)
	k1, k2, k3 := keys[0].Key, keys[1].Key, keys[2].Key
	v1, v2, v3, v4 := keys[0].Value, keys[1].Value, keys[2].Value, keys[3].Value

	parent, cleanup := s.makeBase()
	defer cleanup()
	require.NoError(t, parent.Set(k1, v1))
	require.NoError(t, parent.Set(k2, v2))

	child := parent.CacheWrap()
	require.NoError(t, child.Set(k1, v4))
	require.NoError(t, child.Delete(k2))
	require.NoError(t, child.Set(k3, v3))

	s.AssertGetHas(t, parent, k1, v1, true)
	s.AssertGetHas(t, parent, k2, v2, true)
	s.AssertGetHas(t, parent, k3, nil, false)

	want := []Model{Pair(k1, v4), Pair(k2, nil), Pair(k3, v3)}
	for _, m := range want {
		s.AssertGetHas(t, child, m.Key, m.Value, m.Value != nil)
	}
	require.NoError(t, child.Write())
	for _, m := range want {
		s.AssertGetHas(t, parent, m.Key, m.Value, m.Value != nil)
	}
}

// FuzzIterator iterates random ranges over a cache whose content is
// spread between itself and its parent.
func (s *TestSuite) FuzzIterator(t *testing.T) {
	const size = 40

	for seed := int64(1); seed <= 3; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			r := rand.New(rand.NewSource(seed))
			inParent := randModels(r, size, 8, 24)
			inChild := randModels(r, size, 8, 24)
			deleted := randModels(r, size/4, 8, 24)

			base, cleanup := s.makeBase()
			defer cleanup()
			for _, m := range inParent {
				require.NoError(t, base.Set(m.Key, m.Value))
			}
			child := base.CacheWrap()
			for _, m := range inChild {
				require.NoError(t, child.Set(m.Key, m.Value))
			}
			for _, m := range deleted {
				require.NoError(t, child.Delete(m.Key))
			}

			all := sortModels(append(inParent, inChild...))
			for i := 0; i < 10; i++ {
				lo := r.Intn(len(all) - 1)
				hi := lo + 1 + r.Intn(len(all)-1-lo)
				assertRange(t, child, all[lo].Key, all[hi].Key, all[lo:hi])
			}
			assertRange(t, child, nil, nil, all)
			assertRange(t, child, all[size].Key, nil, all[size:])
			assertRange(t, child, nil, all[size].Key, all[:size])
		})
	}
}

// IteratorWithConflicts covers overwritten and deleted keys on both sides
// of a cache.
func (s *TestSuite) IteratorWithConflicts(t *testing.T) {
	ms := randModels(rand.New(rand.NewSource(7)), 6, 20, 64)
	a, a2, b, b2, c, d := ms[0], ms[1], ms[2], ms[3], ms[4], ms[5]
	a2.Key, b2.Key = a.Key, b.Key

	cases := map[string]struct {
		parent []Op
		child  []Op
		want   []Model
	}{
		"child only": {
			child: makeSetOps(a, b, c),
			want:  []Model{a, b, c},
		},
		"parent only": {
			parent: makeSetOps(a, b, c),
			want:   []Model{a, b, c},
		},
		"both sides": {
			parent: makeSetOps(a, b),
			child:  makeSetOps(c),
			want:   []Model{a, b, c},
		},
		"child overwrites parent": {
			parent: makeSetOps(a, b, c),
			child:  makeSetOps(a2, b2, d),
			want:   []Model{a2, b2, c, d},
		},
		"child deletes parent": {
			parent: makeSetOps(a, c, d),
			child:  makeDelOps(a, b, d),
			want:   []Model{c},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			base, cleanup := s.makeBase()
			defer cleanup()
			for _, op := range tc.parent {
				require.NoError(t, op.Apply(base))
			}
			child := base.CacheWrap()
			for _, op := range tc.child {
				require.NoError(t, op.Apply(child))
			}

			want := sortModels(tc.want)
			assertRange(t, child, nil, nil, want)
			if len(want) > 1 {
				assertRange(t, child, want[1].Key, nil, want[1:])
				assertRange(t, child, nil, want[len(want)-1].Key, want[:len(want)-1])
			}
		})
	}
}

func (s *TestSuite) AssertGetHas(t testing.TB, kv ReadOnlyKVStore, key, val []byte, has bool) {
	t.Helper()
	got, err := kv.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val, got)
	exists, err := kv.Has(key)
	require.NoError(t, err)
	assert.Equal(t, has, exists)
}

// assertRange checks both iteration directions over [start, end).
func assertRange(t testing.TB, kv ReadOnlyKVStore, start, end []byte, want []Model) {
	t.Helper()

	it, err := kv.Iterator(start, end)
	require.NoError(t, err)
	assert.Equal(t, pairs(want), pairs(drain(t, it)), "ascending %X..%X", start, end)

	it, err = kv.ReverseIterator(start, end)
	require.NoError(t, err)
	assert.Equal(t, pairs(reverse(want)), pairs(drain(t, it)), "descending %X..%X", start, end)
}

func drain(t testing.TB, it Iterator) []Model {
	t.Helper()
	defer it.Release()
	var res []Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(t, err)
		res = append(res, Pair(key, value))
	}
}

func pairs(models []Model) []string {
	keys := make([]string, len(models))
	for i, m := range models {
		keys[i] = fmt.Sprintf("%X=%X", m.Key, m.Value)
	}
	return keys
}

// randKeys returns count random byte slices of the given size.
func randKeys(count, size int) [][]byte {
	r := rand.New(rand.NewSource(int64(count*size + 1)))
	res := make([][]byte, count)
	for i := range res {
		res[i] = make([]byte, size)
		_, _ = r.Read(res[i])
	}
	return res
}

func randModels(r *rand.Rand, count, keySize, valueSize int) []Model {
	models := make([]Model, count)
	for i := range models {
		models[i].Key = make([]byte, keySize)
		models[i].Value = make([]byte, valueSize)
		_, _ = r.Read(models[i].Key)
		_, _ = r.Read(models[i].Value)
	}
	return models
}

func reverse(models []Model) []Model {
	res := make([]Model, len(models))
	for i, m := range models {
		res[len(models)-1-i] = m
	}
	return res
}

func sortModels(models []Model) []Model {
	res := make([]Model, len(models))
	copy(res, models)
	sort.Slice(res, func(i, j int) bool {
		return bytes.Compare(res[i].Key, res[j].Key) < 0
	})
	return res
}

func makeSetOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = SetOp(m.Key, m.Value)
	}
	return res
}

func makeDelOps(ms ...Model) []Op {
	res := make([]Op, len(ms))
	for i, m := range ms {
		res[i] = DelOp(m.Key)
	}
	return res
}
