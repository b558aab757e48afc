package record

import "errors"

var (
	ErrNoRecord = errors.New("no such record")
	ErrExists   = errors.New("record exists")
	ErrBadID    = errors.New("bad record id")
)
