package track

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/mutjson/debug"
)

// checkTracked fails if a plain map or slice is reachable from v.
func checkTracked(t *testing.T, v any, at string) {
	t.Helper()
	switch x := v.(type) {
	case map[string]any, []any:
		t.Errorf("plain %T at %q", v, at)
	case *Map:
		for k, vv := range x.All() {
			checkTracked(t, vv, at+"."+k)
		}
	case *List:
		for i, vv := range x.All() {
			checkTracked(t, vv, fmt.Sprintf("%s[%d]", at, i))
		}
	}
}

func TestWrappingClosure(t *testing.T) {
	doc, _ := nestedDoc()
	plain := map[string]any{
		"list": []any{map[string]any{"deep": []any{[]any{1}, map[string]any{}}}},
		"strs": []string{"a"},
		"tags": map[string]string{"k": "v"},
		"rows": []map[string]any{{"id": 1}},
	}
	if err := doc.Set("plain", plain); err != nil {
		t.Fatal(err)
	}
	b := mustGet(t, doc, "a.b").(*List)
	if err := b.Extend([]any{map[string]any{}}, map[string]any{"x": []any{}}); err != nil {
		t.Fatal(err)
	}
	if err := doc.Update(map[string]any{"u": []any{[]any{}}}); err != nil {
		t.Fatal(err)
	}
	checkTracked(t, doc, "")
}

func TestPropagationAnyDepth(t *testing.T) {
	for depth := 0; depth < 6; depth++ {
		t.Run(fmt.Sprintf("depth-%d", depth), func(t *testing.T) {
			var v any = []any{0}
			for range depth {
				v = map[string]any{"n": []any{v}}
			}
			root := NewList([]any{v})
			flag := &Flag{}
			root.SetOwner(flag)

			var node Node = root
			for {
				x, _ := mustGet(t, node, "[0]").(Node)
				if x == nil {
					break
				}
				if m, ok := x.(*Map); ok {
					n, _ := m.Get("n")
					x = n.(*List)
				}
				node = x
			}
			if err := node.(*List).Append(1); err != nil {
				t.Fatal(err)
			}
			if flag.Count() != 1 {
				t.Errorf("root notified %d times, want 1", flag.Count())
			}
		})
	}
}

func TestNotificationsAreNotBatched(t *testing.T) {
	doc, flag := nestedDoc()
	b := mustGet(t, doc, "a.b").(*List)
	for i := range 5 {
		if err := b.Append(i); err != nil {
			t.Fatal(err)
		}
	}
	if flag.Count() != 5 {
		t.Errorf("got %d notifications, want 5", flag.Count())
	}
}

func TestParentRebind(t *testing.T) {
	a, flagA := nestedDoc()
	c := NewMap(nil)
	flagC := &Flag{}
	c.SetOwner(flagC)

	b := mustGet(t, a, "a").(*Map)
	if err := c.Set("moved", b); err != nil {
		t.Fatal(err)
	}
	if b.Parent() != Node(c) {
		t.Fatalf("parent not rebound")
	}
	flagC.Reset()
	if err := b.Set("x", 1); err != nil {
		t.Fatal(err)
	}
	if flagA.Dirty() {
		t.Errorf("old root notified after move")
	}
	if flagC.Count() != 1 {
		t.Errorf("new root notified %d times, want 1", flagC.Count())
	}
	if got := Path(b); got != "moved" {
		t.Errorf("Path() = %q, want %q", got, "moved")
	}
}

func TestRootOwnerIgnoredWhenAttached(t *testing.T) {
	child := NewList([]any{1})
	childFlag := &Flag{}
	child.SetOwner(childFlag)
	root, rootFlag := nestedDoc()
	if err := root.Set("child", child); err != nil {
		t.Fatal(err)
	}
	rootFlag.Reset()
	if err := child.Append(2); err != nil {
		t.Fatal(err)
	}
	if childFlag.Dirty() {
		t.Errorf("attached node notified its own owner")
	}
	if rootFlag.Count() != 1 {
		t.Errorf("root notified %d times, want 1", rootFlag.Count())
	}
}

func TestScalarsUnwrapped(t *testing.T) {
	scalars := []any{nil, true, false, 0, int64(-3), 2.5, "", "text"}
	m := NewMap(nil)
	l := NewList(nil)
	for i, s := range scalars {
		key := fmt.Sprint(i)
		if err := m.Set(key, s); err != nil {
			t.Fatal(err)
		}
		if err := l.Append(s); err != nil {
			t.Fatal(err)
		}
		got, _ := m.Get(key)
		if got != s {
			t.Errorf("map round trip of %#v gave %#v", s, got)
		}
		got, _ = l.At(-1)
		if got != s {
			t.Errorf("list round trip of %#v gave %#v", s, got)
		}
	}
}

func TestScenarioSetAtNested(t *testing.T) {
	doc, flag := nestedDoc()
	b := mustGet(t, doc, "a.b").(*List)
	if err := b.SetAt(2, 4); err != nil {
		t.Fatal(err)
	}
	if flag.Count() != 1 {
		t.Errorf("root notified %d times, want 1", flag.Count())
	}
	want := map[string]any{"a": map[string]any{"b": []any{1, 2, 4}}}
	if diff := cmp.Diff(want, doc.Plain()); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if !Equal(doc, want) {
		t.Errorf("tracked doc not Equal to plain value")
	}
}

func TestDetachedNodeStillWalksStaleParent(t *testing.T) {
	doc, flag := nestedDoc()
	a := mustGet(t, doc, "a").(*Map)
	if err := doc.Delete("a"); err != nil {
		t.Fatal(err)
	}
	flag.Reset()
	if err := a.Set("late", 1); err != nil {
		t.Fatal(err)
	}
	if flag.Count() != 1 {
		t.Errorf("stale parent chain notified %d times, want 1", flag.Count())
	}
	if got := Path(a); got != "?" {
		t.Errorf("Path() of detached node = %q, want %q", got, "?")
	}
}

func TestChangedLogging(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	prev := debug.SetOutput(buf)
	debug.Set(true, true, false)
	defer func() {
		debug.SetOutput(prev)
		debug.Set(false, false, false)
	}()

	doc, _ := nestedDoc()
	a := mustGet(t, doc, "a").(*Map)
	if err := a.Set("x y", map[string]any{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"convert map[string]interface {} -> map under map a",
		`map a: set "x y"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q does not contain %q", out, want)
		}
	}
}

func TestManualChanged(t *testing.T) {
	doc, flag := nestedDoc()
	b := mustGet(t, doc, "a.b").(*List)
	errBoom := errors.New("boom")
	if err := b.Changed(); err != nil {
		t.Fatal(err)
	}
	doc.SetOwner(NotifierFunc(func() error { return errBoom }))
	if err := b.Changed(); !errors.Is(err, errBoom) {
		t.Errorf("Changed() = %v, want owner error", err)
	}
	if flag.Count() != 1 {
		t.Errorf("got %d notifications, want 1", flag.Count())
	}
}

func TestInsertIntoOwnSubtreeFails(t *testing.T) {
	tests := []struct {
		name string
		op   func(doc, a *Map, b *List) error
	}{
		{"set root under child", func(doc, a *Map, b *List) error { return a.Set("loop", doc) }},
		{"set map under itself", func(doc, a *Map, b *List) error { return a.Set("self", a) }},
		{"set default", func(doc, a *Map, b *List) error {
			_, err := a.SetDefault("loop", doc)
			return err
		}},
		{"update extra", func(doc, a *Map, b *List) error { return a.Update(nil, Entry{Key: "x", Value: doc}) }},
		{"update inside plain map", func(doc, a *Map, b *List) error {
			return a.Update(map[string]any{"x": map[string]any{"y": doc}})
		}},
		{"merge", func(doc, a *Map, b *List) error { return a.Merge(doc.All()) }},
		{"append", func(doc, a *Map, b *List) error { return b.Append(doc) }},
		{"append inside plain list", func(doc, a *Map, b *List) error { return b.Append([]any{1, a}) }},
		{"insert", func(doc, a *Map, b *List) error { return b.Insert(0, a) }},
		{"set at", func(doc, a *Map, b *List) error { return b.SetAt(0, doc) }},
		{"extend", func(doc, a *Map, b *List) error { return b.Extend(4, b) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, flag := nestedDoc()
			a := mustGet(t, doc, "a").(*Map)
			b := mustGet(t, doc, "a.b").(*List)
			before := doc.Plain()

			if err := tt.op(doc, a, b); !errors.Is(err, ErrCycle) {
				t.Fatalf("got %v, want ErrCycle", err)
			}
			if flag.Dirty() {
				t.Errorf("rejected insert notified %d times", flag.Count())
			}
			if doc.Parent() != nil || a.Parent() != Node(doc) || b.Parent() != Node(a) {
				t.Errorf("parents changed by rejected insert")
			}
			if diff := cmp.Diff(before, doc.Plain()); diff != "" {
				t.Errorf("document changed (-want +got):\n%s", diff)
			}
			if err := b.Append(4); err != nil {
				t.Fatal(err)
			}
			if flag.Count() != 1 {
				t.Errorf("got %d notifications after a valid append, want 1", flag.Count())
			}
		})
	}
}
