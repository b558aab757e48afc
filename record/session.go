package record

import (
	"context"
	"fmt"
	"log/slog"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/mutjson/codec"
	"github.com/signadot/mutjson/debug"
	"github.com/signadot/mutjson/format"
)

// Options configures a Session. The zero value stores nested JSON
// documents indented by 2 spaces.
type Options struct {
	Format  format.Format
	Column  Column
	Indent  int
	Logger  *slog.Logger
	Metrics *Metrics
}

// Session tracks records loaded from or added to a store and writes back
// the ones that changed. Like tracked documents, a Session is not safe for
// concurrent use.
type Session struct {
	store   Store
	opts    Options
	log     *slog.Logger
	records map[string]*Record
	order   []string
	// compact JSON of each record as last loaded or saved
	saved map[string][]byte
}

func New(store Store, opts *Options) *Session {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.Indent == 0 {
		o.Indent = 2
	}
	log := o.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		store:   store,
		opts:    o,
		log:     log.With("component", "record.Session"),
		records: map[string]*Record{},
		saved:   map[string][]byte{},
	}
}

func (s *Session) track(rec *Record) {
	s.records[rec.ID] = rec
	s.order = append(s.order, rec.ID)
	rec.onChange = s.opts.Metrics.notified
}

// Add adds a new record to the session. It is written on the next Flush.
func (s *Session) Add(rec *Record) error {
	if _, ok := s.records[rec.ID]; ok {
		return fmt.Errorf("%w: %q", ErrExists, rec.ID)
	}
	s.track(rec)
	return nil
}

// Create builds a record of the session's column holding v and adds it.
func (s *Session) Create(id string, v any) (*Record, error) {
	rec, err := NewRecord(id, s.opts.Column, v)
	if err != nil {
		return nil, err
	}
	if err := s.Add(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns a record already in the session.
func (s *Session) Get(id string) (*Record, bool) {
	rec, ok := s.records[id]
	return rec, ok
}

// Open returns the record id, loading it from the store if it is not yet in
// the session. A freshly loaded record is clean.
func (s *Session) Open(ctx context.Context, id string) (*Record, error) {
	if rec, ok := s.records[id]; ok {
		return rec, nil
	}
	d, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := codec.Decode(d,
		codec.DecodeFormat(s.opts.Format),
		codec.DecodeRegistry(s.opts.Column.Registry()))
	if err != nil {
		return nil, fmt.Errorf("decoding %q: %w", id, err)
	}
	rec, err := NewRecord(id, s.opts.Column, v)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", id, err)
	}
	cur, err := codec.Marshal(rec.Doc, codec.EncodeCompact(true))
	if err != nil {
		return nil, err
	}
	s.track(rec)
	s.saved[id] = cur
	s.log.Debug("opened", "id", id, "bytes", len(d))
	return rec, nil
}

// Dirty returns the records Flush would consider, in the order they entered
// the session: changed records and records never saved.
func (s *Session) Dirty() []*Record {
	var res []*Record
	for _, id := range s.order {
		rec := s.records[id]
		if _, saved := s.saved[id]; rec.Dirty() || !saved {
			res = append(res, rec)
		}
	}
	return res
}

// Flush writes every dirty record whose JSON value differs from the last
// loaded or saved one, and marks all dirty records clean. It returns the
// number of records written. Flush stops at the first error; records not
// yet handled stay dirty.
func (s *Session) Flush(ctx context.Context) (int, error) {
	n := 0
	for _, rec := range s.Dirty() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		wrote, err := s.flush(ctx, rec)
		if err != nil {
			s.opts.Metrics.failed()
			return n, fmt.Errorf("flushing %q: %w", rec.ID, err)
		}
		if wrote {
			n++
		}
	}
	return n, nil
}

func (s *Session) flush(ctx context.Context, rec *Record) (bool, error) {
	cur, err := codec.Marshal(rec.Doc, codec.EncodeCompact(true))
	if err != nil {
		return false, err
	}
	prev, saved := s.saved[rec.ID]
	if saved && jsonpatch.Equal(prev, cur) {
		s.opts.Metrics.skipped()
		s.log.Debug("unchanged", "id", rec.ID, "changes", rec.Changes())
		rec.clean()
		return false, nil
	}
	d, err := codec.Marshal(rec.Doc,
		codec.EncodeFormat(s.opts.Format),
		codec.EncodeIndent(s.opts.Indent))
	if err != nil {
		return false, err
	}
	if err := s.store.Save(ctx, rec.ID, d); err != nil {
		return false, err
	}
	if debug.Flush() {
		patch := cur
		if saved {
			if p, err := jsonpatch.CreateMergePatch(prev, cur); err == nil {
				patch = p
			}
		}
		debug.Logf("flush %s changes=%d patch=%s\n", rec.ID, rec.Changes(), patch)
	}
	s.saved[rec.ID] = cur
	s.opts.Metrics.wrote()
	s.log.Debug("saved", "id", rec.ID, "changes", rec.Changes(), "bytes", len(d))
	rec.clean()
	return true, nil
}
