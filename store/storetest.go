package store

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"

	"github.com/iov-one/quorum"
	"github.com/iov-one/quorum/errors"
	"github.com/iov-one/quorum/quorumtest/assert"
)

// RunCacheSuite checks the cache wrap behaviour the runtime depends on.
// newBase is called once per subtest and must return an empty store.
// Implementations of CacheableKVStore run it from their tests.
func RunCacheSuite(t *testing.T, newBase func(testing.TB) CacheableKVStore) {
	t.Run("layered reads and writes", func(t *testing.T) {
		checkLayers(t, newBase(t))
	})
	t.Run("child shadows parent", func(t *testing.T) {
		checkShadowing(t, newBase(t))
	})
	for name, sc := range iterScenarios() {
		sc := sc
		t.Run("iterate "+name, func(t *testing.T) {
			checkIteration(t, newBase(t), sc)
		})
	}
}

// AssertValue checks that kv holds want under key. A nil want means the
// key must be absent.
func AssertValue(t testing.TB, kv ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := kv.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
	has, err := kv.Has(key)
	assert.Nil(t, err)
	assert.Equal(t, want != nil, has)
}

// accountKey returns the storage key of a test account. Keys of the same
// owner sort by n.
func accountKey(owner byte, n int) []byte {
	return quorum.AccountKey(quorum.Pubkey{owner, byte(n >> 8), byte(n)})
}

func checkLayers(t *testing.T, base CacheableKVStore) {
	alice, bob, carol := accountKey(1, 0), accountKey(2, 0), accountKey(3, 0)

	AssertValue(t, base, alice, nil)
	assert.Nil(t, base.Set(alice, []byte("100")))
	AssertValue(t, base, alice, []byte("100"))

	tx := base.CacheWrap()
	AssertValue(t, tx, alice, []byte("100"))
	assert.Nil(t, tx.Set(bob, []byte("50")))
	AssertValue(t, tx, bob, []byte("50"))
	AssertValue(t, base, bob, nil)
	assert.Nil(t, tx.Write())
	AssertValue(t, base, bob, []byte("50"))

	// A discarded transaction leaves no trace.
	failed := base.CacheWrap()
	assert.Nil(t, failed.Set(carol, []byte("7")))
	assert.Nil(t, failed.Delete(alice))
	failed.Discard()
	AssertValue(t, base, carol, nil)
	AssertValue(t, base, alice, []byte("100"))

	// Caches opened side by side see each other only once written.
	left, right := base.CacheWrap(), base.CacheWrap()
	assert.Nil(t, left.Delete(alice))
	AssertValue(t, right, alice, []byte("100"))
	assert.Nil(t, left.Write())
	AssertValue(t, right, alice, nil)
	AssertValue(t, right, bob, []byte("50"))
}

func checkShadowing(t *testing.T, parent CacheableKVStore) {
	a, b, c := accountKey(1, 1), accountKey(1, 2), accountKey(1, 3)
	assert.Nil(t, parent.Set(a, []byte("parent a")))
	assert.Nil(t, parent.Set(b, []byte("parent b")))

	child := parent.CacheWrap()
	assert.Nil(t, child.Set(a, []byte("child a")))
	assert.Nil(t, child.Delete(b))
	assert.Nil(t, child.Set(c, []byte("child c")))

	AssertValue(t, parent, a, []byte("parent a"))
	AssertValue(t, parent, b, []byte("parent b"))
	AssertValue(t, parent, c, nil)
	assertChildState := func(kv ReadOnlyKVStore) {
		t.Helper()
		AssertValue(t, kv, a, []byte("child a"))
		AssertValue(t, kv, b, nil)
		AssertValue(t, kv, c, []byte("child c"))
	}
	assertChildState(child)
	assert.Nil(t, child.Write())
	assertChildState(parent)
}

// iterScenario applies parent operations to the base and child
// operations to a cache wrap of it.
type iterScenario struct {
	parent []Op
	child  []Op
}

func iterScenarios() map[string]iterScenario {
	var evens, odds, dropEvens []Op
	for i := 0; i < 30; i++ {
		op := SetOp(accountKey(4, i), []byte{byte(i)})
		if i%2 == 0 {
			evens = append(evens, op)
			dropEvens = append(dropEvens, DelOp(accountKey(4, i)))
		} else {
			odds = append(odds, op)
		}
	}
	var overwrite []Op
	for i := 0; i < 30; i += 3 {
		overwrite = append(overwrite, SetOp(accountKey(4, i), []byte("new")))
	}
	overwrite = append(overwrite, DelOp(accountKey(4, 4)), DelOp(accountKey(4, 5)), DelOp(accountKey(9, 9)))

	return map[string]iterScenario{
		"child only":          {child: append(odds[:len(odds):len(odds)], DelOp(accountKey(4, 0)))},
		"parent only":         {parent: evens},
		"interleaved layers":  {parent: evens, child: odds},
		"overwrite and drop":  {parent: append(evens[:len(evens):len(evens)], odds...), child: overwrite},
		"everything deleted":  {parent: evens, child: dropEvens},
		"random transactions": randomScenario(rand.New(rand.NewSource(42))),
	}
}

// randomScenario sets and deletes keys drawn from a small pool, so that
// the layers collide often.
func randomScenario(r *rand.Rand) iterScenario {
	ops := func(n int) []Op {
		res := make([]Op, n)
		for i := range res {
			key := accountKey(byte(1+r.Intn(3)), r.Intn(20))
			if r.Intn(4) == 0 {
				res[i] = DelOp(key)
			} else {
				res[i] = SetOp(key, []byte{byte(r.Intn(256))})
			}
		}
		return res
	}
	return iterScenario{parent: ops(60), child: ops(60)}
}

// expectedState replays operations on a map and returns the resulting
// state sorted by key.
func expectedState(ops ...[]Op) []Model {
	state := make(map[string][]byte)
	for _, list := range ops {
		for _, op := range list {
			if op.IsSetOp() {
				state[string(op.Key())] = op.Value()
			} else {
				delete(state, string(op.Key()))
			}
		}
	}
	res := make([]Model, 0, len(state))
	for k, v := range state {
		res = append(res, Pair([]byte(k), v))
	}
	sort.Slice(res, func(i, j int) bool { return bytes.Compare(res[i].Key, res[j].Key) < 0 })
	return res
}

func checkIteration(t *testing.T, base CacheableKVStore, sc iterScenario) {
	for _, op := range sc.parent {
		assert.Nil(t, op.Apply(base))
	}
	child := base.CacheWrap()
	for _, op := range sc.child {
		assert.Nil(t, op.Apply(child))
	}

	want := expectedState(sc.parent, sc.child)
	bounds := [][]byte{nil, accountKey(0, 0), accountKey(255, 0)}
	for i := 0; i < len(want); i += 4 {
		bounds = append(bounds, want[i].Key)
	}
	for _, start := range bounds {
		for _, end := range bounds {
			if start != nil && end != nil && bytes.Compare(start, end) >= 0 {
				continue
			}
			assertRange(t, child, start, end, want)
		}
	}

	assert.Nil(t, child.Write())
	assertRange(t, base, nil, nil, want)
}

// assertRange iterates kv in both directions over [start, end) and
// compares with the matching subset of all.
func assertRange(t testing.TB, kv ReadOnlyKVStore, start, end []byte, all []Model) {
	t.Helper()
	var want []Model
	for _, m := range all {
		if start != nil && bytes.Compare(m.Key, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(m.Key, end) >= 0 {
			continue
		}
		want = append(want, m)
	}

	it, err := kv.Iterator(start, end)
	assert.Nil(t, err)
	assertIterates(t, it, want)

	reversed := make([]Model, len(want))
	for i, m := range want {
		reversed[len(want)-1-i] = m
	}
	it, err = kv.ReverseIterator(start, end)
	assert.Nil(t, err)
	assertIterates(t, it, reversed)
}

func assertIterates(t testing.TB, it Iterator, want []Model) {
	t.Helper()
	defer it.Release()
	for i, m := range want {
		key, value, err := it.Next()
		assert.Nil(t, err)
		if !bytes.Equal(m.Key, key) {
			t.Fatalf("item %d: want key %X, got %X", i, m.Key, key)
		}
		assert.Equal(t, m.Value, value)
	}
	if _, _, err := it.Next(); !errors.ErrIteratorDone.Is(err) {
		t.Fatalf("want end of iteration, got %v", err)
	}
}
