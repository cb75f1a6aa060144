package status

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Table is a set of named cells of one kind
// Cells are allocated once and never move, so callers may keep the pointer
type Table[T any] struct {
	cells sync.Map // string -> *T
	n     atomic.Int32
}

func newTable[T any]() *Table[T] { return &Table[T]{} }

// Get returns the cell for key, creating it on first use
func (t *Table[T]) Get(key string) *T {
	if v, ok := t.cells.Load(key); ok {
		return v.(*T)
	}
	v, loaded := t.cells.LoadOrStore(key, new(T))
	if !loaded {
		t.n.Add(1)
	}
	return v.(*T)
}

func (t *Table[T]) Has(key string) bool {
	_, ok := t.cells.Load(key)
	return ok
}

func (t *Table[T]) Count() int { return int(t.n.Load()) }

// Range visits cells sorted by key
func (t *Table[T]) Range(fn func(key string, cell *T)) {
	var keys []string
	t.cells.Range(func(k, _ any) bool {
		keys = append(keys, k.(string))
		return true
	})
	slices.Sort(keys)
	for _, k := range keys {
		v, _ := t.cells.Load(k)
		fn(k, v.(*T))
	}
}
