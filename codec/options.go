package codec

import (
	"github.com/signadot/mutjson/format"
	"github.com/signadot/mutjson/track"
)

type encodeOpts struct {
	format  format.Format
	indent  int
	compact bool
	colors  *Colors
}

type EncodeOption func(*encodeOpts)

func EncodeFormat(f format.Format) EncodeOption {
	return func(o *encodeOpts) { o.format = f }
}

// EncodeIndent sets the number of spaces per nesting level, default 2.
func EncodeIndent(n int) EncodeOption {
	return func(o *encodeOpts) { o.indent = n }
}

// EncodeCompact produces single line JSON. It has no effect on other formats.
func EncodeCompact(v bool) EncodeOption {
	return func(o *encodeOpts) { o.compact = v }
}

// EncodeColors colorizes JSON output. A nil c disables colors.
func EncodeColors(c *Colors) EncodeOption {
	return func(o *encodeOpts) { o.colors = c }
}

type decodeOpts struct {
	format format.Format
	reg    *track.Registry
}

type DecodeOption func(*decodeOpts)

func DecodeFormat(f format.Format) DecodeOption {
	return func(o *decodeOpts) { o.format = f }
}

// DecodeRegistry selects the registry used to build containers.
func DecodeRegistry(r *track.Registry) DecodeOption {
	return func(o *decodeOpts) { o.reg = r }
}
