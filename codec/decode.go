package codec

import (
	"fmt"
	"math"
	"reflect"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
	"github.com/signadot/mutjson/format"
	"github.com/signadot/mutjson/track"
)

var (
	mapSliceType  = reflect.TypeFor[yaml.MapSlice]()
	plainMapType  = reflect.TypeFor[map[string]any]()
	plainListType = reflect.TypeFor[[]any]()
)

func init() {
	track.RegisterType(track.DefaultRegistry, mapSliceNode)
}

// mapSliceNode keeps the document order of a yaml mapping.
func mapSliceNode(r *track.Registry, v yaml.MapSlice) track.Node {
	entries := make([]track.Entry, 0, len(v))
	for _, item := range v {
		entries = append(entries, track.Entry{Key: fmt.Sprint(item.Key), Value: item.Value})
	}
	return r.NewMap(nil, entries...)
}

// Decode decodes a single document. Mappings and sequences are built
// through the registry given by DecodeRegistry, track.DefaultRegistry
// otherwise.
func Decode(d []byte, opts ...DecodeOption) (any, error) {
	o := &decodeOpts{reg: track.DefaultRegistry}
	for _, opt := range opts {
		opt(o)
	}
	switch o.format {
	case format.JSONFormat:
		return o.reg.DecodeJSON(d)
	case format.YAMLFormat:
		return decodeYAML(d, o.reg)
	case format.TOMLFormat:
		return decodeTOML(d, o.reg)
	}
	return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, o.format)
}

func decodeYAML(d []byte, reg *track.Registry) (any, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	ordered := reg.Tracks(mapSliceType)
	v = normalizeYAML(v, ordered)
	switch x := v.(type) {
	case yaml.MapSlice:
		return reg.Convert(x, nil), nil
	case map[string]any:
		if reg.Tracks(plainMapType) {
			return reg.NewMap(x), nil
		}
	case []any:
		if reg.Tracks(plainListType) {
			return reg.NewList(x), nil
		}
	}
	return v, nil
}

// normalizeYAML gives decoded yaml the value types JSON decoding produces.
// Mappings stay ordered only when the registry can convert them.
func normalizeYAML(v any, ordered bool) any {
	switch x := v.(type) {
	case yaml.MapSlice:
		if ordered {
			res := make(yaml.MapSlice, len(x))
			for i, item := range x {
				res[i] = yaml.MapItem{Key: fmt.Sprint(item.Key), Value: normalizeYAML(item.Value, ordered)}
			}
			return res
		}
		res := make(map[string]any, len(x))
		for _, item := range x {
			res[fmt.Sprint(item.Key)] = normalizeYAML(item.Value, ordered)
		}
		return res
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, vv := range x {
			res[k] = normalizeYAML(vv, ordered)
		}
		return res
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, vv := range x {
			res[fmt.Sprint(k)] = normalizeYAML(vv, ordered)
		}
		return res
	case []any:
		res := make([]any, len(x))
		for i, vv := range x {
			res[i] = normalizeYAML(vv, ordered)
		}
		return res
	case uint64:
		if x <= math.MaxInt64 {
			return int64(x)
		}
	case int:
		return int64(x)
	}
	return v
}

func decodeTOML(d []byte, reg *track.Registry) (any, error) {
	var m map[string]any
	if err := toml.Unmarshal(d, &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	if !reg.Tracks(plainMapType) {
		return m, nil
	}
	return reg.NewMap(m), nil
}
