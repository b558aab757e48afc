package record

import (
	"github.com/signadot/mutjson/track"
)

// Record is a document identified by ID. It is the owner hook of the
// document's root and counts the changes made since it was last clean.
type Record struct {
	ID  string
	Doc track.Node

	col      Column
	changes  int
	onChange func()
}

// NewRecord coerces v into a document of col and attaches it.
func NewRecord(id string, col Column, v any) (*Record, error) {
	doc, err := col.Coerce(v)
	if err != nil {
		return nil, err
	}
	r := &Record{ID: id, col: col}
	r.Attach(doc)
	return r, nil
}

func (r *Record) Column() Column { return r.col }

// Attach makes doc the record's document. The previous document, if any,
// stops notifying the record.
func (r *Record) Attach(doc track.Node) {
	if r.Doc != nil && r.Doc.Owner() == track.Notifier(r) {
		r.Doc.SetOwner(nil)
	}
	r.Doc = doc
	if doc != nil {
		doc.SetOwner(r)
	}
}

// Set replaces the document with v, coerced to the record's column. The
// record is marked dirty.
func (r *Record) Set(v any) error {
	doc, err := r.col.Coerce(v)
	if err != nil {
		return err
	}
	r.Attach(doc)
	return r.Changed()
}

func (r *Record) Changed() error {
	r.changes++
	if r.onChange != nil {
		r.onChange()
	}
	return nil
}

func (r *Record) Dirty() bool { return r.changes > 0 }

// Changes is the number of notifications since the record was last clean.
func (r *Record) Changes() int { return r.changes }

func (r *Record) clean() { r.changes = 0 }
