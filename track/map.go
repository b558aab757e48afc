package track

import (
	"fmt"
	"iter"
	"slices"
)

// Entry is a key/value pair used to build or update a Map in order.
type Entry struct {
	Key   string
	Value any
}

// Map is an insertion ordered mapping from string keys to values which
// notifies its root of every mutation.
//
// The zero value is an empty root map using DefaultRegistry.
type Map struct {
	tracker
	keys []string
	vals map[string]any
}

// NewMap builds a root Map from src, in sorted key order, followed by
// extra in the given order. Nested containers are converted with
// DefaultRegistry. Building does not notify.
func NewMap(src map[string]any, extra ...Entry) *Map {
	return DefaultRegistry.NewMap(src, extra...)
}

// NewMap is like the package level NewMap but converts with r.
func (r *Registry) NewMap(src map[string]any, extra ...Entry) *Map {
	m := r.newMap()
	m.load(sortedEntries(src))
	m.load(entrySeq(extra))
	return m
}

func (r *Registry) newMap() *Map {
	return &Map{tracker: tracker{reg: r}, vals: map[string]any{}}
}

func (m *Map) load(seq iter.Seq2[string, any]) {
	for k, v := range m.registry().ConvertEntries(seq, m) {
		m.put(k, v)
	}
}

func (m *Map) put(key string, v any) {
	if m.vals == nil {
		m.vals = map[string]any{}
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *Map) remove(key string) any {
	v := m.vals[key]
	delete(m.vals, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
	return v
}

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *Map) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Keys returns a copy of the keys in insertion order.
func (m *Map) Keys() []string {
	return slices.Clone(m.keys)
}

// All iterates entries in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range slices.Clone(m.keys) {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

func (m *Map) Changed() error {
	return notifyRoot(m)
}

// Set creates or replaces the value under key. An existing key keeps its
// position.
func (m *Map) Set(key string, v any) error {
	if err := checkCycle(m, v); err != nil {
		return err
	}
	m.put(key, m.registry().Convert(v, m))
	return m.changed(m, "set %q", key)
}

func (m *Map) Delete(key string) error {
	if !m.Has(key) {
		return fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	m.remove(key)
	return m.changed(m, "delete %q", key)
}

// Clear removes every entry. It notifies even when m is already empty.
func (m *Map) Clear() error {
	m.keys = nil
	m.vals = map[string]any{}
	return m.changed(m, "clear")
}

// Pop removes and returns the value under key.
func (m *Map) Pop(key string) (any, error) {
	if !m.Has(key) {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	v := m.remove(key)
	return v, m.changed(m, "pop %q", key)
}

// PopDefault is like Pop but returns def when key is absent. It notifies
// either way.
func (m *Map) PopDefault(key string, def any) (any, error) {
	v := def
	if m.Has(key) {
		v = m.remove(key)
	}
	return v, m.changed(m, "pop %q (default %v)", key, def)
}

// PopItem removes and returns the most recently inserted entry.
func (m *Map) PopItem() (string, any, error) {
	n := len(m.keys)
	if n == 0 {
		return "", nil, fmt.Errorf("%w: pop item from empty map", ErrEmptyContainer)
	}
	key := m.keys[n-1]
	v := m.remove(key)
	return key, v, m.changed(m, "pop item %q", key)
}

// Update merges src, in sorted key order, followed by extra. It notifies
// exactly once, even when there is nothing to merge.
func (m *Map) Update(src map[string]any, extra ...Entry) error {
	for _, e := range extra {
		if err := checkCycle(m, e.Value); err != nil {
			return err
		}
	}
	if err := checkCycle(m, src); err != nil {
		return err
	}
	m.load(sortedEntries(src))
	m.load(entrySeq(extra))
	return m.changed(m, "update (%d+%d entries)", len(src), len(extra))
}

// Merge is Update for an ordered entry sequence such as another Map's All.
// Tracked values taken from another Map are moved, not copied.
func (m *Map) Merge(seq iter.Seq2[string, any]) error {
	var es []Entry
	for k, v := range seq {
		if err := checkCycle(m, v); err != nil {
			return err
		}
		es = append(es, Entry{Key: k, Value: v})
	}
	m.load(entrySeq(es))
	return m.changed(m, "merge")
}

// SetDefault returns the value under key if present, without notifying.
// Otherwise it sets key to def and returns the stored, possibly converted,
// value.
func (m *Map) SetDefault(key string, def any) (any, error) {
	if v, ok := m.vals[key]; ok {
		return v, nil
	}
	err := m.Set(key, def)
	return m.vals[key], err
}

// Clone returns an independent deep copy of m as a root.
func (m *Map) Clone() *Map {
	return m.cloneMap(nil)
}

func (m *Map) clone(parent Node) Node {
	return m.cloneMap(parent)
}

func (m *Map) cloneMap(parent Node) *Map {
	res := m.registry().newMap()
	res.parent = parent
	res.keys = make([]string, 0, len(m.keys))
	for _, k := range m.keys {
		res.put(k, cloneValue(m.vals[k], res))
	}
	return res
}

func (m *Map) Plain() any {
	res := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		res[k] = plainValue(m.vals[k])
	}
	return res
}

func entrySeq(es []Entry) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, e := range es {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}
