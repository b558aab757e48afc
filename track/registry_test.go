package track

import (
	"maps"
	"reflect"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type attrs map[string]int

func TestRegistryConvert(t *testing.T) {
	parent := NewMap(nil)
	tests := []struct {
		name string
		in   any
		kind string
	}{
		{"plain map", map[string]any{"a": 1}, "map"},
		{"plain list", []any{1}, "list"},
		{"string map", map[string]string{"a": "b"}, "map"},
		{"string list", []string{"a"}, "list"},
		{"list of maps", []map[string]any{{"a": 1}}, "list"},
		{"int", 1, ""},
		{"string", "s", ""},
		{"nil", nil, ""},
		{"unregistered map", attrs{"a": 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.in, parent)
			n, ok := got.(Node)
			if tt.kind == "" {
				if ok {
					t.Fatalf("converted scalar to %s", kind(n))
				}
				if !reflect.DeepEqual(got, tt.in) {
					t.Errorf("Convert changed %#v to %#v", tt.in, got)
				}
				return
			}
			if !ok {
				t.Fatalf("got %T, want tracked %s", got, tt.kind)
			}
			if kind(n) != tt.kind {
				t.Errorf("got %s, want %s", kind(n), tt.kind)
			}
			if n.Parent() != Node(parent) {
				t.Errorf("converted node not parented")
			}
			if !Equal(n, tt.in) {
				t.Errorf("converted value %v not Equal to %v", n.Plain(), tt.in)
			}
		})
	}
}

func TestRegistryConvertReusesNodes(t *testing.T) {
	n := NewList([]any{1})
	p := NewMap(nil)
	if got := Convert(n, p); got != any(n) {
		t.Fatalf("tracked node was copied")
	}
	if n.Parent() != Node(p) {
		t.Errorf("tracked node not rebound")
	}
}

func TestRegisterCustomType(t *testing.T) {
	r := NewRegistry()
	RegisterType(r, func(r *Registry, v attrs) Node {
		m := r.NewMap(nil)
		for _, k := range slices.Sorted(maps.Keys(v)) {
			m.put(k, v[k])
		}
		return m
	})
	doc := r.NewMap(nil, Entry{"attrs", attrs{"b": 2, "a": 1}}, Entry{"plain", map[string]any{}})
	got, _ := doc.Get("attrs")
	m, ok := got.(*Map)
	if !ok {
		t.Fatalf("custom type not converted, got %T", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := mustGet(t, doc, "plain").(map[string]any); !ok {
		t.Errorf("registry without map[string]any converted a plain map")
	}
}

func TestShallowRegistry(t *testing.T) {
	r := NewRegistry()
	doc := r.NewMap(map[string]any{"a": map[string]any{"b": []any{1}}})
	flag := &Flag{}
	doc.SetOwner(flag)

	a := mustGet(t, doc, "a").(map[string]any)
	a["b"] = []any{2}
	if flag.Dirty() {
		t.Errorf("plain child notified")
	}
	if err := doc.Set("c", []any{}); err != nil {
		t.Fatal(err)
	}
	if _, ok := mustGet(t, doc, "c").([]any); !ok {
		t.Errorf("shallow map converted a new child")
	}
	if flag.Count() != 1 {
		t.Errorf("top level set notified %d times, want 1", flag.Count())
	}

	cp := doc.Clone()
	cp.vals["a"].(map[string]any)["b"] = "changed"
	if diff := cmp.Diff([]any{2}, mustGet(t, doc, "a.b")); diff != "" {
		t.Errorf("clone shares plain children (-want +got):\n%s", diff)
	}
}

func TestConvertEachIsLazy(t *testing.T) {
	parent := NewList(nil)
	calls := 0
	seq := func(yield func(any) bool) {
		for _, v := range []any{[]any{}, []any{}, []any{}} {
			calls++
			if !yield(v) {
				return
			}
		}
	}
	for v := range DefaultRegistry.ConvertEach(seq, parent) {
		if _, ok := v.(*List); !ok {
			t.Fatalf("got %T", v)
		}
		break
	}
	if calls != 1 {
		t.Errorf("source consumed %d values, want 1", calls)
	}
}

func TestRegistryRebuild(t *testing.T) {
	shallow := NewRegistry().NewMap(nil,
		Entry{Key: "z", Value: map[string]any{"y": []any{1}}},
		Entry{Key: "a", Value: 1},
	)
	flag := &Flag{}
	shallow.SetOwner(flag)

	n := DefaultRegistry.Rebuild(shallow)
	m := n.(*Map)
	if m.Registry() != DefaultRegistry || m.Owner() != nil || m.Parent() != nil {
		t.Fatalf("rebuilt map is not a fresh DefaultRegistry root")
	}
	if diff := cmp.Diff([]string{"z", "a"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	inner, ok := mustGet(t, m, "z.y").(*List)
	if !ok {
		t.Fatalf("z.y not tracked after rebuild")
	}
	if Root(inner) != Node(m) {
		t.Errorf("rebuilt child not attached to the new root")
	}
	if err := inner.Append(2); err != nil {
		t.Fatal(err)
	}
	if flag.Dirty() {
		t.Errorf("mutating the rebuild notified the original owner")
	}
	if diff := cmp.Diff(map[string]any{"z": map[string]any{"y": []any{1}}, "a": 1}, shallow.Plain()); diff != "" {
		t.Errorf("original changed (-want +got):\n%s", diff)
	}
}
