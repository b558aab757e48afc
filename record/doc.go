// Package record owns tracked documents and persists them when they change.
//
// A Record is the owner hook of one tracked document: every mutation
// anywhere in the document marks the record dirty. A Session groups records
// backed by a Store and writes back only the records that are dirty, and of
// those only the ones whose JSON value differs from what was last loaded or
// saved.
//
//	store, _ := record.NewDirStore("data", format.JSONFormat)
//	s := record.New(store, nil)
//	rec, _ := s.Open(ctx, "settings")
//	m := rec.Doc.(*track.Map)
//	m.Set("theme", "dark")
//	n, err := s.Flush(ctx) // n == 1
//
// # Columns
//
// A Column selects how deep a record's document is tracked. Nested documents
// notify for mutations at any depth; Shallow documents only for mutations of
// the root container, their children being plain values.
//
// # Related Packages
//
//   - github.com/signadot/mutjson/track - tracked containers
//   - github.com/signadot/mutjson/codec - document encoding
package record
