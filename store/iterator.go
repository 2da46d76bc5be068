package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/quorum/errors"
)

///////////////////////////////////////////////////////
// From Items to Iterator

// ascendBtree collects all items of the btree within [start, end) in
// ascending order. Either limit may be nil to leave the range open.
//
// The cache of a single transaction is small, so the items are copied
// out of the tree instead of walking it lazily. This keeps the tree
// free for writes while the iterator is alive.
func ascendBtree(bt *btree.BTree, start, end []byte) []cacheEntry {
	var items []cacheEntry
	collect := func(item btree.Item) bool {
		items = append(items, item.(cacheEntry))
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(cacheEntry{key: end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(cacheEntry{key: start}, collect)
	default:
		bt.AscendRange(cacheEntry{key: start}, cacheEntry{key: end}, collect)
	}
	return items
}

// descendBtree is the same as ascendBtree but returns the items in
// descending order.
func descendBtree(bt *btree.BTree, start, end []byte) []cacheEntry {
	items := ascendBtree(bt, start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// itemIter combines the items of a cache with the iterator of its
// parent, taking into consideration overwrites and deletes.
type itemIter struct {
	items   []cacheEntry
	parent  Iterator
	reverse bool

	// next item of the parent, read ahead
	pKey, pValue []byte
	pLoaded      bool
	pDone        bool
}

var _ Iterator = (*itemIter)(nil)

func newItemIter(items []cacheEntry, parent Iterator, reverse bool) *itemIter {
	return &itemIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
}

// Next implements Iterator.
func (i *itemIter) Next() (key, value []byte, err error) {
	for {
		if err := i.loadParent(); err != nil {
			return nil, nil, err
		}

		if len(i.items) == 0 {
			if !i.pLoaded {
				return nil, nil, errors.ErrIteratorDone
			}
			return i.takeParent()
		}
		if !i.pLoaded {
			if key, value, ok := i.takeItem(); ok {
				return key, value, nil
			}
			continue
		}

		cmp := bytes.Compare(i.items[0].key, i.pKey)
		if i.reverse {
			cmp = -cmp
		}
		switch {
		case cmp > 0:
			return i.takeParent()
		case cmp == 0:
			// cached value shadows the parent
			i.pLoaded = false
		}
		if key, value, ok := i.takeItem(); ok {
			return key, value, nil
		}
	}
}

// loadParent reads ahead one item of the parent iterator if needed.
func (i *itemIter) loadParent() error {
	if i.pLoaded || i.pDone {
		return nil
	}
	key, value, err := i.parent.Next()
	switch {
	case err == nil:
		i.pKey, i.pValue, i.pLoaded = key, value, true
	case errors.ErrIteratorDone.Is(err):
		i.pDone = true
	default:
		return err
	}
	return nil
}

func (i *itemIter) takeParent() ([]byte, []byte, error) {
	i.pLoaded = false
	return i.pKey, i.pValue, nil
}

// takeItem consumes the first cached item. ok is false if the item was
// a deletion marker.
func (i *itemIter) takeItem() (key, value []byte, ok bool) {
	e := i.items[0]
	i.items = i.items[1:]
	if e.deleted {
		return nil, nil, false
	}
	return e.key, e.value, true
}

// Release releases the Iterator.
func (i *itemIter) Release() {
	i.parent.Release()
	i.items = nil
}
