package track

import (
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
)

// Compare returns an integer comparing two JSON-like values, tracked or
// plain. The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
//
// Values order by kind first: null < bool < number < string < list < map,
// followed by anything else. Numbers compare by value across Go numeric
// types. Maps compare by their sorted keys, then values.
func Compare(a, b any) int {
	rankA, rankB := rank(a), rank(b)
	if rankA != rankB {
		return cmp.Compare(rankA, rankB)
	}
	switch rankA {
	case rankNull:
		return 0
	case rankBool:
		x, y := a.(bool), b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	case rankNumber:
		return compareNumbers(a, b)
	case rankString:
		return strings.Compare(a.(string), b.(string))
	case rankList:
		return compareLists(listView(a), listView(b))
	case rankMap:
		return compareMaps(mapView(a), mapView(b))
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprintf("%T:%v", a, a), fmt.Sprintf("%T:%v", b, b))
}

// Equal reports whether a and b hold the same JSON-like value. A tracked
// container equals the plain structure it wraps.
//
// A NaN is not equal to anything, itself included, and neither is a container
// holding one. Compare still orders NaN below every other number.
func Equal(a, b any) bool {
	if hasNaN(a) || hasNaN(b) {
		return false
	}
	return Compare(a, b) == 0
}

func hasNaN(v any) bool {
	switch rank(v) {
	case rankNumber:
		n := numberOf(v)
		return !n.isInt && math.IsNaN(n.f)
	case rankList:
		lv := listView(v)
		for i := range lv.n {
			if hasNaN(lv.at(i)) {
				return true
			}
		}
	case rankMap:
		mv := mapView(v)
		for _, k := range mv.keys {
			if hasNaN(mv.get(k)) {
				return true
			}
		}
	}
	return false
}

const (
	rankNull = iota
	rankBool
	rankNumber
	rankString
	rankList
	rankMap
	rankOther
)

func rank(v any) int {
	switch x := v.(type) {
	case nil:
		return rankNull
	case bool:
		return rankBool
	case string:
		return rankString
	case json.Number:
		return rankNumber
	case *List:
		if x == nil {
			return rankNull
		}
		return rankList
	case *Map:
		if x == nil {
			return rankNull
		}
		return rankMap
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rankNumber
	case reflect.Slice, reflect.Array:
		return rankList
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return rankMap
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return rankNull
		}
	}
	return rankOther
}

type number struct {
	isInt bool
	i     int64
	f     float64
}

func numberOf(v any) number {
	if jn, ok := v.(json.Number); ok {
		if i, err := jn.Int64(); err == nil {
			return number{isInt: true, i: i, f: float64(i)}
		}
		f, _ := jn.Float64()
		return number{f: f}
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return number{isInt: true, i: i, f: float64(i)}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return number{isInt: true, i: int64(u), f: float64(u)}
		}
		return number{f: float64(u)}
	}
	return number{f: rv.Float()}
}

func compareNumbers(a, b any) int {
	x, y := numberOf(a), numberOf(b)
	if x.isInt && y.isInt {
		return cmp.Compare(x.i, y.i)
	}
	return cmp.Compare(x.f, y.f)
}

type seqView struct {
	n  int
	at func(int) any
}

func listView(v any) seqView {
	switch x := v.(type) {
	case *List:
		return seqView{n: len(x.vals), at: func(i int) any { return x.vals[i] }}
	case []any:
		return seqView{n: len(x), at: func(i int) any { return x[i] }}
	}
	rv := reflect.ValueOf(v)
	return seqView{n: rv.Len(), at: func(i int) any { return rv.Index(i).Interface() }}
}

type kvView struct {
	keys []string
	get  func(string) any
}

func mapView(v any) kvView {
	switch x := v.(type) {
	case *Map:
		return kvView{keys: slices.Sorted(slices.Values(x.keys)), get: func(k string) any { return x.vals[k] }}
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return kvView{keys: keys, get: func(k string) any { return x[k] }}
	}
	rv := reflect.ValueOf(v)
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	slices.Sort(keys)
	kt := rv.Type().Key()
	return kvView{keys: keys, get: func(k string) any {
		return rv.MapIndex(reflect.ValueOf(k).Convert(kt)).Interface()
	}}
}

func compareLists(a, b seqView) int {
	for i := range min(a.n, b.n) {
		if c := Compare(a.at(i), b.at(i)); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.n, b.n)
}

func compareMaps(a, b kvView) int {
	for i := range min(len(a.keys), len(b.keys)) {
		if c := strings.Compare(a.keys[i], b.keys[i]); c != 0 {
			return c
		}
		if c := Compare(a.get(a.keys[i]), b.get(b.keys[i])); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a.keys), len(b.keys))
}
