package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/signadot/mutjson/format"
	"github.com/signadot/mutjson/track"
)

// Encode writes v, a tracked node or plain value, to w.
func Encode(v any, w io.Writer, opts ...EncodeOption) error {
	o := &encodeOpts{indent: 2}
	for _, opt := range opts {
		opt(o)
	}
	switch o.format {
	case format.JSONFormat:
		return encodeJSON(v, w, o)
	case format.YAMLFormat:
		return encodeYAML(v, w, o)
	case format.TOMLFormat:
		return encodeTOML(v, w, o)
	}
	return fmt.Errorf("%w: %d", format.ErrBadFormat, o.format)
}

// Marshal encodes v into a byte slice.
func Marshal(v any, opts ...EncodeOption) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(v, buf, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type jsonEncoder struct {
	buf    *bytes.Buffer
	indent string
	colors *Colors
}

func encodeJSON(v any, w io.Writer, o *encodeOpts) error {
	e := &jsonEncoder{buf: bytes.NewBuffer(nil), colors: o.colors}
	if !o.compact {
		e.indent = strings.Repeat(" ", o.indent)
	}
	if err := e.value(v, 0); err != nil {
		return err
	}
	if !o.compact {
		e.buf.WriteByte('\n')
	}
	_, err := w.Write(e.buf.Bytes())
	return err
}

func (e *jsonEncoder) newline(depth int) {
	if e.indent == "" {
		return
	}
	e.buf.WriteByte('\n')
	for range depth {
		e.buf.WriteString(e.indent)
	}
}

func (e *jsonEncoder) sep(s string) {
	e.buf.WriteString(e.colors.Color(SepColor, s))
}

func (e *jsonEncoder) value(v any, depth int) error {
	switch x := v.(type) {
	case *track.Map:
		return e.object(x.Len(), x.All(), depth)
	case map[string]any:
		return e.object(len(x), func(yield func(string, any) bool) {
			for _, k := range slices.Sorted(maps.Keys(x)) {
				if !yield(k, x[k]) {
					return
				}
			}
		}, depth)
	case *track.List:
		return e.array(x.Len(), func(yield func(int, any) bool) {
			for i, vv := range x.All() {
				if !yield(i, vv) {
					return
				}
			}
		}, depth)
	case []any:
		return e.array(len(x), slices.All(x), depth)
	}
	return e.scalar(v)
}

func (e *jsonEncoder) object(n int, entries func(func(string, any) bool), depth int) error {
	e.sep("{")
	if n == 0 {
		e.sep("}")
		return nil
	}
	i := 0
	var err error
	entries(func(k string, v any) bool {
		if i > 0 {
			e.sep(",")
		}
		i++
		e.newline(depth + 1)
		kd, kerr := json.Marshal(k)
		if kerr != nil {
			err = kerr
			return false
		}
		e.buf.WriteString(e.colors.Color(KeyColor, string(kd)))
		e.sep(":")
		if e.indent != "" {
			e.buf.WriteByte(' ')
		}
		if err = e.value(v, depth+1); err != nil {
			err = fmt.Errorf("key %s: %w", kd, err)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	e.newline(depth)
	e.sep("}")
	return nil
}

func (e *jsonEncoder) array(n int, elems func(func(int, any) bool), depth int) error {
	e.sep("[")
	if n == 0 {
		e.sep("]")
		return nil
	}
	var err error
	elems(func(i int, v any) bool {
		if i > 0 {
			e.sep(",")
		}
		e.newline(depth + 1)
		if err = e.value(v, depth+1); err != nil {
			err = fmt.Errorf("index %d: %w", i, err)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	e.newline(depth)
	e.sep("]")
	return nil
}

func (e *jsonEncoder) scalar(v any) error {
	d, err := json.Marshal(v)
	if err != nil {
		return err
	}
	attr := NumberColor
	switch v.(type) {
	case nil:
		attr = NullColor
	case bool:
		attr = BoolColor
	case string:
		attr = StringColor
	}
	if len(d) > 0 && (d[0] == '{' || d[0] == '[') {
		// typed containers left plain by a shallow registry
		compact := bytes.NewBuffer(nil)
		if err := json.Compact(compact, d); err != nil {
			return err
		}
		e.buf.Write(compact.Bytes())
		return nil
	}
	e.buf.WriteString(e.colors.Color(attr, string(d)))
	return nil
}

// yamlValue turns tracked containers into values goccy/go-yaml encodes in
// order.
func yamlValue(v any) any {
	switch x := v.(type) {
	case *track.Map:
		res := make(yaml.MapSlice, 0, x.Len())
		for k, vv := range x.All() {
			res = append(res, yaml.MapItem{Key: k, Value: yamlValue(vv)})
		}
		return res
	case *track.List:
		res := make([]any, 0, x.Len())
		for _, vv := range x.All() {
			res = append(res, yamlValue(vv))
		}
		return res
	}
	return v
}

func encodeYAML(v any, w io.Writer, o *encodeOpts) error {
	enc := yaml.NewEncoder(w, yaml.Indent(o.indent), yaml.IndentSequence(true))
	if err := enc.Encode(yamlValue(v)); err != nil {
		return err
	}
	return enc.Close()
}

func encodeTOML(v any, w io.Writer, o *encodeOpts) error {
	var doc map[string]any
	switch x := v.(type) {
	case *track.Map:
		doc = x.Plain().(map[string]any)
	case map[string]any:
		doc = x
	default:
		return fmt.Errorf("%w: toml requires a map at the root, got %T", ErrNotDocument, v)
	}
	enc := toml.NewEncoder(w)
	enc.Indent = strings.Repeat(" ", o.indent)
	return enc.Encode(doc)
}
