package record

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/mutjson/format"
)

// Store holds encoded documents by id.
type Store interface {
	// Load returns the document stored under id, or an error wrapping
	// ErrNoRecord.
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, d []byte) error
	// List returns the stored ids in sorted order.
	List(ctx context.Context) ([]string, error)
}

// MemStore is an in-memory Store. It is safe for concurrent use.
type MemStore struct {
	mu    sync.Mutex
	docs  map[string][]byte
	saves int
}

func NewMemStore() *MemStore {
	return &MemStore{docs: map[string][]byte{}}
}

func (s *MemStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoRecord, id)
	}
	return slices.Clone(d), nil
}

func (s *MemStore) Save(ctx context.Context, id string, d []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = slices.Clone(d)
	s.saves++
	return nil
}

func (s *MemStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.docs)), nil
}

// Saves is the number of Save calls so far.
func (s *MemStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// DirStore keeps one file per record in a directory, named by the record
// id and the extension of its format.
type DirStore struct {
	dir string
	ext string
}

func NewDirStore(dir string, f format.Format) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &DirStore{dir: dir, ext: "." + f.Ext()}, nil
}

func (s *DirStore) Dir() string { return s.dir }

func (s *DirStore) path(id string) (string, error) {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadID, id)
	}
	return filepath.Join(s.dir, id+s.ext), nil
}

func (s *DirStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(id)
	if err != nil {
		return nil, err
	}
	d, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNoRecord, id)
	}
	return d, err
}

func (s *DirStore) Save(ctx context.Context, id string, d []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(id)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, d, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (s *DirStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var res []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := strings.CutSuffix(e.Name(), s.ext)
		if !ok || id == "" {
			continue
		}
		res = append(res, id)
	}
	slices.Sort(res)
	return res, nil
}
