package track

import (
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/signadot/mutjson/debug"
)

// Factory builds a tracked node from a value of a registered type. The
// returned node has no parent; Convert binds it.
type Factory func(r *Registry, v any) Node

// Registry maps plain container types to the factories that wrap them.
//
// Lookups match the exact runtime type of a value. A Registry is populated
// before use and is not safe for concurrent registration.
type Registry struct {
	factories map[reflect.Type]Factory
}

// DefaultRegistry converts map[string]any, []any and a few common typed
// containers. Collaborators may register more types at init time.
var DefaultRegistry = NewRegistry()

func init() {
	RegisterType(DefaultRegistry, func(r *Registry, v map[string]any) Node {
		return r.NewMap(v)
	})
	RegisterType(DefaultRegistry, func(r *Registry, v []any) Node {
		return r.NewList(v)
	})
	RegisterType(DefaultRegistry, func(r *Registry, v map[string]string) Node {
		m := r.newMap()
		m.load(sortedEntries(v))
		return m
	})
	RegisterType(DefaultRegistry, func(r *Registry, v []string) Node {
		l := r.newList()
		l.load(anySeq(v))
		return l
	})
	RegisterType(DefaultRegistry, func(r *Registry, v []map[string]any) Node {
		l := r.newList()
		l.load(anySeq(v))
		return l
	})
}

// NewRegistry returns a registry with no entries. Nodes built with it only
// track their own top level.
func NewRegistry() *Registry {
	return &Registry{factories: map[reflect.Type]Factory{}}
}

func (r *Registry) Register(t reflect.Type, f Factory) {
	r.factories[t] = f
}

// RegisterType registers f for values whose runtime type is exactly T.
func RegisterType[T any](r *Registry, f func(r *Registry, v T) Node) {
	r.Register(reflect.TypeFor[T](), func(r *Registry, v any) Node {
		return f(r, v.(T))
	})
}

// Tracks reports whether values of type t are converted.
func (r *Registry) Tracks(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

// Convert returns v in a form suitable for storage under parent.
//
// Tracked nodes are not copied: they are rebound to parent. Values of a
// registered type are wrapped, with parent as the new node's parent. Anything
// else is returned unchanged.
func (r *Registry) Convert(v any, parent Node) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *Map:
		if x == nil {
			return v
		}
		x.setParent(parent)
		return x
	case *List:
		if x == nil {
			return v
		}
		x.setParent(parent)
		return x
	}
	f, ok := r.factories[reflect.TypeOf(v)]
	if !ok {
		return v
	}
	n := f(r, v)
	n.setParent(parent)
	if debug.Convert() {
		where := "<root>"
		if parent != nil {
			where = kind(parent) + " " + Path(parent)
		}
		debug.Logf("convert %s -> %s under %s\n", reflect.TypeOf(v).String(), kind(n), where)
	}
	return n
}

// Rebuild returns a new root with the content of n, converted level by
// level with r. Levels r tracks keep their order; levels it does not track
// become plain values. n is left unchanged.
func (r *Registry) Rebuild(n Node) Node {
	return r.rebuild(n, nil).(Node)
}

func (r *Registry) rebuild(v any, parent Node) any {
	switch x := v.(type) {
	case *Map:
		if parent != nil && !r.Tracks(plainMapType) {
			return x.Plain()
		}
		m := r.newMap()
		m.parent = parent
		for _, k := range x.keys {
			m.put(k, r.rebuild(x.vals[k], m))
		}
		return m
	case *List:
		if parent != nil && !r.Tracks(plainListType) {
			return x.Plain()
		}
		l := r.newList()
		l.parent = parent
		l.vals = make([]any, len(x.vals))
		for i, vv := range x.vals {
			l.vals[i] = r.rebuild(vv, l)
		}
		return l
	}
	return r.Convert(cloneValue(v, parent), parent)
}

// ConvertEach lazily converts every value of seq for storage under parent.
func (r *Registry) ConvertEach(seq iter.Seq[any], parent Node) iter.Seq[any] {
	return func(yield func(any) bool) {
		for v := range seq {
			if !yield(r.Convert(v, parent)) {
				return
			}
		}
	}
}

// ConvertEntries is ConvertEach for key/value sequences.
func (r *Registry) ConvertEntries(seq iter.Seq2[string, any], parent Node) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for k, v := range seq {
			if !yield(k, r.Convert(v, parent)) {
				return
			}
		}
	}
}

// Convert converts v with DefaultRegistry.
func Convert(v any, parent Node) any {
	return DefaultRegistry.Convert(v, parent)
}

func sortedEntries[V any](m map[string]V) iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}

func anySeq[V any](vs []V) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range vs {
			if !yield(v) {
				return
			}
		}
	}
}
