package track

import "errors"

var (
	ErrKeyNotFound     = errors.New("key not found")
	ErrEmptyContainer  = errors.New("empty container")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrValueNotFound   = errors.New("value not found")
	ErrNotContainer    = errors.New("not a container")
	ErrBadPath         = errors.New("bad path")
	ErrCycle           = errors.New("node inserted into itself")
)
