package track

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
)

// MarshalJSON encodes m as an object with keys in insertion order. The parent
// reference is not part of the encoding.
func (m *Map) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kd, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kd)
		buf.WriteByte(':')
		vd, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vd)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the content of m with a JSON object, keeping
// document order. Decoded children are parented to m; m keeps its own
// parent and owner. Loading does not notify.
func (m *Map) UnmarshalJSON(d []byte) error {
	v, err := decodeJSON(d)
	if err != nil {
		return err
	}
	obj, ok := v.(jsonObject)
	if !ok {
		return fmt.Errorf("%w: expected JSON object, got %s", ErrNotContainer, jsonKind(v))
	}
	m.keys = nil
	m.vals = map[string]any{}
	r := m.registry()
	for _, e := range obj {
		m.put(e.Key, r.build(e.Value, m))
	}
	return nil
}

func (l *List) MarshalJSON() ([]byte, error) {
	if l.vals == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l.vals)
}

// UnmarshalJSON replaces the content of l with a JSON array. Decoded
// children are parented to l.
func (l *List) UnmarshalJSON(d []byte) error {
	v, err := decodeJSON(d)
	if err != nil {
		return err
	}
	arr, ok := v.(jsonArray)
	if !ok {
		return fmt.Errorf("%w: expected JSON array, got %s", ErrNotContainer, jsonKind(v))
	}
	r := l.registry()
	l.vals = make([]any, len(arr))
	for i, e := range arr {
		l.vals[i] = r.build(e, l)
	}
	return nil
}

// DecodeJSON decodes a single JSON value with DefaultRegistry.
func DecodeJSON(d []byte) (any, error) {
	return DefaultRegistry.DecodeJSON(d)
}

// DecodeJSON decodes a single JSON value. Objects and arrays become root
// tracked containers when r tracks map[string]any and []any respectively,
// keeping object key order; otherwise they are plain. Integers decode as
// int64, other numbers as float64.
func (r *Registry) DecodeJSON(d []byte) (any, error) {
	v, err := decodeJSON(d)
	if err != nil {
		return nil, err
	}
	return r.build(v, nil), nil
}

type jsonObject []Entry
type jsonArray []any

var (
	plainMapType  = reflect.TypeFor[map[string]any]()
	plainListType = reflect.TypeFor[[]any]()
)

// build turns decoded JSON into stored values under parent.
func (r *Registry) build(v any, parent Node) any {
	switch x := v.(type) {
	case jsonObject:
		if !r.Tracks(plainMapType) {
			return x.plain()
		}
		m := r.newMap()
		m.parent = parent
		for _, e := range x {
			m.put(e.Key, r.build(e.Value, m))
		}
		return m
	case jsonArray:
		if !r.Tracks(plainListType) {
			return x.plain()
		}
		l := r.newList()
		l.parent = parent
		l.vals = make([]any, len(x))
		for i, e := range x {
			l.vals[i] = r.build(e, l)
		}
		return l
	}
	return v
}

func (o jsonObject) plain() map[string]any {
	res := make(map[string]any, len(o))
	for _, e := range o {
		res[e.Key] = plainJSON(e.Value)
	}
	return res
}

func (a jsonArray) plain() []any {
	res := make([]any, len(a))
	for i, e := range a {
		res[i] = plainJSON(e)
	}
	return res
}

func plainJSON(v any) any {
	switch x := v.(type) {
	case jsonObject:
		return x.plain()
	case jsonArray:
		return x.plain()
	}
	return v
}

func decodeJSON(d []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch x := tok.(type) {
	case json.Delim:
		switch x {
		case '{':
			obj := jsonObject{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				k, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj = setEntry(obj, k, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := jsonArray{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", x)
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		if f, err := x.Float64(); err == nil {
			return f, nil
		}
		return x, nil
	}
	return tok, nil
}

// setEntry keeps the first position and the last value of a repeated key,
// as encoding/json does for maps.
func setEntry(obj jsonObject, k string, v any) jsonObject {
	for i := range obj {
		if obj[i].Key == k {
			obj[i].Value = v
			return obj
		}
	}
	return append(obj, Entry{Key: k, Value: v})
}

func jsonKind(v any) string {
	switch v.(type) {
	case jsonObject:
		return "object"
	case jsonArray:
		return "array"
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	}
	return "number"
}
