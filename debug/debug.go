package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Changed bool
	Convert bool
	Flush   bool
}

var d *debug

func init() {
	d = &debug{}
	d.Changed = boolEnv("MJ_DEBUG_CHANGED")
	d.Convert = boolEnv("MJ_DEBUG_CONVERT")
	d.Flush = boolEnv("MJ_DEBUG_FLUSH")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Changed reports whether change notifications are logged.
func Changed() bool {
	return d.Changed
}

// Convert reports whether container conversions are logged.
func Convert() bool {
	return d.Convert
}

// Flush reports whether session flushes are logged.
func Flush() bool {
	return d.Flush
}

// Set overrides the environment derived switches, mostly for tests.
func Set(changed, convert, flush bool) {
	d.Changed = changed
	d.Convert = convert
	d.Flush = flush
}
