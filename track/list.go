package track

import (
	"fmt"
	"iter"
	"slices"
)

// List is an ordered sequence of values which notifies its root of every
// mutation.
//
// Indexes may be negative, counting back from the end: -1 is the last
// element. The zero value is an empty root list using DefaultRegistry.
type List struct {
	tracker
	vals []any
}

// NewList builds a root List from src. Nested containers are converted with
// DefaultRegistry. Building does not notify.
func NewList(src []any) *List {
	return DefaultRegistry.NewList(src)
}

// NewList is like the package level NewList but converts with r.
func (r *Registry) NewList(src []any) *List {
	l := r.newList()
	l.load(slices.Values(src))
	return l
}

func (r *Registry) newList() *List {
	return &List{tracker: tracker{reg: r}}
}

func (l *List) load(seq iter.Seq[any]) {
	for v := range l.registry().ConvertEach(seq, l) {
		l.vals = append(l.vals, v)
	}
}

func (l *List) index(i int) (int, error) {
	n := len(l.vals)
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, n)
	}
	return j, nil
}

func (l *List) Len() int { return len(l.vals) }

func (l *List) At(i int) (any, error) {
	j, err := l.index(i)
	if err != nil {
		return nil, err
	}
	return l.vals[j], nil
}

// All iterates elements in order.
func (l *List) All() iter.Seq2[int, any] {
	return slices.All(slices.Clone(l.vals))
}

// Index returns the position of the first element Equal to v, or -1.
func (l *List) Index(v any) int {
	return slices.IndexFunc(l.vals, func(x any) bool {
		return Equal(x, v)
	})
}

func (l *List) Changed() error {
	return notifyRoot(l)
}

func (l *List) SetAt(i int, v any) error {
	j, err := l.index(i)
	if err != nil {
		return err
	}
	if err := checkCycle(l, v); err != nil {
		return err
	}
	l.vals[j] = l.registry().Convert(v, l)
	return l.changed(l, "set [%d]", j)
}

func (l *List) DeleteAt(i int) error {
	j, err := l.index(i)
	if err != nil {
		return err
	}
	l.vals = slices.Delete(l.vals, j, j+1)
	return l.changed(l, "delete [%d]", j)
}

func (l *List) Append(v any) error {
	if err := checkCycle(l, v); err != nil {
		return err
	}
	l.vals = append(l.vals, l.registry().Convert(v, l))
	return l.changed(l, "append")
}

// Extend appends vs, notifying once.
func (l *List) Extend(vs ...any) error {
	return l.ExtendSeq(slices.Values(vs))
}

// ExtendSeq appends every value of seq, notifying once.
func (l *List) ExtendSeq(seq iter.Seq[any]) error {
	vs := slices.Collect(seq)
	if err := checkCycle(l, vs...); err != nil {
		return err
	}
	n := len(l.vals)
	l.load(slices.Values(vs))
	return l.changed(l, "extend (+%d)", len(l.vals)-n)
}

// Insert places v before position i. Like Python's list.insert, out of
// range positions are clamped to the ends.
func (l *List) Insert(i int, v any) error {
	if err := checkCycle(l, v); err != nil {
		return err
	}
	n := len(l.vals)
	if i < 0 {
		i = max(i+n, 0)
	}
	i = min(i, n)
	l.vals = slices.Insert(l.vals, i, l.registry().Convert(v, l))
	return l.changed(l, "insert [%d]", i)
}

// Remove deletes the first element Equal to v.
func (l *List) Remove(v any) error {
	j := l.Index(v)
	if j < 0 {
		return fmt.Errorf("%w: %v", ErrValueNotFound, v)
	}
	l.vals = slices.Delete(l.vals, j, j+1)
	return l.changed(l, "remove [%d]", j)
}

// Pop removes and returns the element at i.
func (l *List) Pop(i int) (any, error) {
	j, err := l.index(i)
	if err != nil {
		return nil, err
	}
	v := l.vals[j]
	l.vals = slices.Delete(l.vals, j, j+1)
	return v, l.changed(l, "pop [%d]", j)
}

// Sort stably sorts the list by Compare of key(element), or of the elements
// themselves when key is nil. key is called once per element. Sort notifies
// even if the order does not change.
func (l *List) Sort(key func(any) any, reverse bool) error {
	type keyed struct {
		k, v any
	}
	ks := make([]keyed, len(l.vals))
	for i, v := range l.vals {
		ks[i].v = v
		ks[i].k = v
		if key != nil {
			ks[i].k = key(v)
		}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		if reverse {
			return Compare(b.k, a.k)
		}
		return Compare(a.k, b.k)
	})
	for i := range ks {
		l.vals[i] = ks[i].v
	}
	return l.changed(l, "sort (reverse=%t)", reverse)
}

// SortFunc stably sorts the list with cmp and notifies. A nil cmp sorts by
// Compare.
func (l *List) SortFunc(cmp func(a, b any) int) error {
	if cmp == nil {
		cmp = Compare
	}
	slices.SortStableFunc(l.vals, cmp)
	return l.changed(l, "sort func")
}

// Clone returns an independent deep copy of l as a root.
func (l *List) Clone() *List {
	return l.cloneList(nil)
}

func (l *List) clone(parent Node) Node {
	return l.cloneList(parent)
}

func (l *List) cloneList(parent Node) *List {
	res := l.registry().newList()
	res.parent = parent
	res.vals = make([]any, len(l.vals))
	for i, v := range l.vals {
		res.vals[i] = cloneValue(v, res)
	}
	return res
}

func (l *List) Plain() any {
	res := make([]any, len(l.vals))
	for i, v := range l.vals {
		res[i] = plainValue(v)
	}
	return res
}
