package track

import (
	"fmt"
	"strconv"
	"strings"
)

// Path returns the kinded path of n from the root of its tree, for example
// "a.b[2]". The root's path is "". A node whose parent no longer holds it is
// shown as "?" at that position.
func Path(n Node) string {
	p := n.Parent()
	if p == nil {
		return ""
	}
	prefix := Path(p)
	switch x := p.(type) {
	case *Map:
		for _, k := range x.keys {
			if x.vals[k] == any(n) {
				return joinField(prefix, k)
			}
		}
	case *List:
		for i, v := range x.vals {
			if v == any(n) {
				return prefix + "[" + strconv.Itoa(i) + "]"
			}
		}
	}
	return joinField(prefix, "?")
}

func joinField(prefix, f string) string {
	if quoteField(f) {
		f = strconv.Quote(f)
	}
	if prefix == "" {
		return f
	}
	return prefix + "." + f
}

func quoteField(f string) bool {
	return f == "" || strings.ContainsAny(f, ".[]\"' \t\n")
}

// Segment is one step of a parsed path: a map key or a list index.
type Segment struct {
	Field *string
	Index *int
}

func (s Segment) String() string {
	if s.Index != nil {
		return "[" + strconv.Itoa(*s.Index) + "]"
	}
	if quoteField(*s.Field) {
		return strconv.Quote(*s.Field)
	}
	return *s.Field
}

// ParsePath parses a kinded path such as `a.b[2]`, `[0].name` or
// `"dotted.key"[-1]`. The empty path has no segments.
func ParsePath(p string) ([]Segment, error) {
	var res []Segment
	i := 0
	for i < len(p) {
		switch c := p[i]; {
		case c == '[':
			j := strings.IndexByte(p[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("%w: unterminated index in %q", ErrBadPath, p)
			}
			n, err := strconv.Atoi(p[i+1 : i+j])
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrBadPath, p[i+1:i+j], p)
			}
			res = append(res, Segment{Index: &n})
			i += j + 1
		case c == '.':
			if i == 0 || i == len(p)-1 {
				return nil, fmt.Errorf("%w: misplaced '.' in %q", ErrBadPath, p)
			}
			i++
			if p[i] == '.' || p[i] == '[' {
				return nil, fmt.Errorf("%w: empty field in %q", ErrBadPath, p)
			}
		case c == '"':
			q, err := strconv.QuotedPrefix(p[i:])
			if err != nil {
				return nil, fmt.Errorf("%w: bad quoted field in %q: %w", ErrBadPath, p, err)
			}
			f, _ := strconv.Unquote(q)
			res = append(res, Segment{Field: &f})
			i += len(q)
		default:
			j := strings.IndexAny(p[i:], ".[")
			if j < 0 {
				j = len(p) - i
			}
			f := p[i : i+j]
			res = append(res, Segment{Field: &f})
			i += j
		}
	}
	return res, nil
}

// Get returns the value at path p below v.
func Get(v any, p string) (any, error) {
	segs, err := ParsePath(p)
	if err != nil {
		return nil, err
	}
	return GetSegments(v, segs)
}

// GetSegments is Get for an already parsed path.
func GetSegments(v any, segs []Segment) (any, error) {
	var err error
	res := v
	for i, seg := range segs {
		res, err = step(res, seg)
		if err != nil {
			return nil, fmt.Errorf("at %s: %w", formatSegments(segs[:i+1]), err)
		}
	}
	return res, nil
}

func step(v any, seg Segment) (any, error) {
	if seg.Index != nil {
		switch x := v.(type) {
		case *List:
			return x.At(*seg.Index)
		case []any:
			i := *seg.Index
			if i < 0 {
				i += len(x)
			}
			if i < 0 || i >= len(x) {
				return nil, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, *seg.Index, len(x))
			}
			return x[i], nil
		}
		return nil, fmt.Errorf("%w: expected list, got %T", ErrNotContainer, v)
	}
	var (
		res any
		ok  bool
	)
	switch x := v.(type) {
	case *Map:
		res, ok = x.Get(*seg.Field)
	case map[string]any:
		res, ok = x[*seg.Field]
	default:
		return nil, fmt.Errorf("%w: expected map, got %T", ErrNotContainer, v)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, *seg.Field)
	}
	return res, nil
}

func formatSegments(segs []Segment) string {
	var b strings.Builder
	for i, s := range segs {
		if i > 0 && s.Field != nil {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}
