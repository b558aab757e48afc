package track

import (
	"fmt"
	"slices"

	"github.com/signadot/mutjson/debug"
)

// Notifier receives change notifications. A root node forwards every change
// in its tree to its owner Notifier.
type Notifier interface {
	Changed() error
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func() error

func (f NotifierFunc) Changed() error { return f() }

// Node is a tracked container, either a *Map or a *List.
type Node interface {
	Notifier

	// Parent is the container the node was most recently inserted into, or
	// nil for a root. It is not owned by the node.
	Parent() Node
	// Owner is the notifier signalled when a change reaches this node as
	// root.
	Owner() Notifier
	SetOwner(Notifier)
	// Len is the number of entries or elements.
	Len() int
	// Plain returns a deep copy made of map[string]any and []any.
	Plain() any
	// Registry is the registry converting values stored in the node.
	Registry() *Registry

	setParent(Node)
	registry() *Registry
	clone(parent Node) Node
}

type tracker struct {
	parent Node
	owner  Notifier
	reg    *Registry
}

func (t *tracker) Parent() Node            { return t.parent }
func (t *tracker) setParent(p Node)        { t.parent = p }
func (t *tracker) Owner() Notifier         { return t.owner }
func (t *tracker) SetOwner(owner Notifier) { t.owner = owner }

func (t *tracker) Registry() *Registry { return t.registry() }

func (t *tracker) registry() *Registry {
	if t.reg == nil {
		return DefaultRegistry
	}
	return t.reg
}

// changed logs msg when enabled and notifies the root of self.
func (t *tracker) changed(self Node, msg string, args ...any) error {
	if debug.Changed() {
		debug.Logf("%s %s: %s\n", kind(self), Path(self), fmt.Sprintf(msg, args...))
	}
	return notifyRoot(self)
}

func notifyRoot(n Node) error {
	r := Root(n)
	if o := r.Owner(); o != nil {
		return o.Changed()
	}
	return nil
}

// checkCycle returns an error wrapping ErrCycle if storing any of vs under
// parent would make a node its own ancestor. Plain maps and slices in vs are
// searched too, since converting them rebinds the nodes they hold.
func checkCycle(parent Node, vs ...any) error {
	var up []Node
	for p := parent; p != nil; p = p.Parent() {
		up = append(up, p)
	}
	for _, v := range vs {
		if n := findNode(v, up); n != nil {
			return fmt.Errorf("%w: %s at %q is an ancestor of %q", ErrCycle, kind(n), Path(n), Path(parent))
		}
	}
	return nil
}

func findNode(v any, nodes []Node) Node {
	switch x := v.(type) {
	case *Map:
		if x != nil && slices.Contains(nodes, Node(x)) {
			return x
		}
	case *List:
		if x != nil && slices.Contains(nodes, Node(x)) {
			return x
		}
	case map[string]any:
		for _, vv := range x {
			if n := findNode(vv, nodes); n != nil {
				return n
			}
		}
	case []any:
		for _, vv := range x {
			if n := findNode(vv, nodes); n != nil {
				return n
			}
		}
	case []map[string]any:
		for _, vv := range x {
			if n := findNode(vv, nodes); n != nil {
				return n
			}
		}
	}
	return nil
}

// Root follows parent references from n to the top of its tree.
func Root(n Node) Node {
	res := n
	for p := res.Parent(); p != nil; p = res.Parent() {
		res = p
	}
	return res
}

// Clone returns an independent deep copy of n. Parent references inside the
// copy point at the copies; the copied root has no parent and no owner.
func Clone(n Node) Node {
	return n.clone(nil)
}

// Flag is a Notifier which records that a change happened.
type Flag struct {
	n int
}

func (f *Flag) Changed() error {
	f.n++
	return nil
}

// Dirty reports whether any change was seen since the last Reset.
func (f *Flag) Dirty() bool { return f.n > 0 }

// Count is the number of notifications since the last Reset.
func (f *Flag) Count() int { return f.n }

func (f *Flag) Reset() { f.n = 0 }

func kind(n Node) string {
	switch n.(type) {
	case *Map:
		return "map"
	case *List:
		return "list"
	}
	return "node"
}

// cloneValue copies v for placement under parent.
func cloneValue(v any, parent Node) any {
	switch x := v.(type) {
	case Node:
		return x.clone(parent)
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, vv := range x {
			res[k] = cloneValue(vv, nil)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, vv := range x {
			res[i] = cloneValue(vv, nil)
		}
		return res
	}
	return v
}

func plainValue(v any) any {
	if n, ok := v.(Node); ok {
		return n.Plain()
	}
	return cloneValue(v, nil)
}
