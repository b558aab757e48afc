// Package track provides mutation tracking containers for nested JSON-like
// data.
//
// # Overview
//
// A tracked document is a tree of *Map and *List nodes holding scalars
// (nil, bool, numbers, strings) and further tracked nodes. Every mutating
// method on any node in the tree sends exactly one notification to the root,
// where it is passed to the root's owner Notifier. The notification carries
// no payload: it only says that something below the root changed.
//
//	doc := track.NewMap(map[string]any{
//	    "a": map[string]any{"b": []any{1, 2, 3}},
//	})
//	flag := &track.Flag{}
//	doc.SetOwner(flag)
//
//	b, _ := track.Get(doc, "a.b")
//	b.(*track.List).SetAt(2, 4)
//	flag.Count() // 1
//
// # Conversion
//
// Plain containers are never stored as such. Whenever a value enters a
// tracked node, whether at construction or through a mutation, it goes
// through a Registry:
//
//   - a value whose exact runtime type is registered is wrapped by the
//     registered Factory and its parent set to the receiving node;
//   - a *Map or *List is stored as is, and its parent is rebound to the
//     receiving node (a move: the last container to receive a node owns its
//     notifications);
//   - anything else is stored unchanged.
//
// DefaultRegistry handles map[string]any, []any, map[string]string,
// []string and []map[string]any. Other packages may register more types at
// init time. A node built with an empty registry (NewRegistry) tracks only
// its own top level.
//
// # Parents
//
// Parent references are only used to walk upward. They are not part of a
// node's value: they are skipped by Equal, Compare, Plain and JSON encoding,
// and Clone rebinds them so the copy never notifies the original's owner.
// Removing a node from its container does not clear its parent.
//
// # Errors
//
// Failing operations return errors wrapping ErrKeyNotFound,
// ErrEmptyContainer, ErrIndexOutOfRange or ErrValueNotFound and do not
// notify. Inserting a node into its own subtree fails with ErrCycle and
// leaves both trees as they were. An error returned by the owner Notifier is passed back unchanged
// from the mutating call, after the mutation was applied.
//
// # Thread Safety
//
// Tracked nodes are not thread-safe. Callers sharing a tree between
// goroutines must serialize access to the whole tree.
//
// # Related Packages
//
//   - github.com/signadot/mutjson/codec - encodes tracked documents as JSON, YAML and TOML
//   - github.com/signadot/mutjson/record - owns tracked documents and persists them when dirty
package track
