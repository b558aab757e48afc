package main

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/signadot/mutjson/codec"
	"github.com/signadot/mutjson/track"
)

var errOp = errors.New("bad operation")

// opTakesValue tells, for each operation, whether its argument is p=v
// rather than a bare path.
var opTakesValue = map[string]bool{
	"set":        true,
	"setdefault": true,
	"del":        false,
	"pop":        false,
	"append":     true,
	"extend":     true,
	"remove":     true,
	"clear":      false,
	"sort":       false,
}

type op struct {
	name  string
	path  string
	segs  []track.Segment
	value any
}

func (o *op) String() string {
	if opTakesValue[o.name] {
		return fmt.Sprintf("%s %s=%s", o.name, o.path, valueString(o.value))
	}
	return o.name + " " + o.path
}

func valueString(v any) string {
	d, err := codec.Marshal(v, codec.EncodeCompact(true))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(d)
}

// parseOps parses operation names each followed by one argument. Values
// are built with reg, so they track as deep as the document they go into.
func parseOps(args []string, reg *track.Registry) ([]*op, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: %q has no argument", errOp, args[len(args)-1])
	}
	res := make([]*op, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		o, err := parseOp(args[i], args[i+1], reg)
		if err != nil {
			return nil, err
		}
		res = append(res, o)
	}
	return res, nil
}

func parseOp(name, arg string, reg *track.Registry) (*op, error) {
	takesValue, ok := opTakesValue[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown operation %q", errOp, name)
	}
	o := &op{name: name, path: arg}
	if takesValue {
		p, v, ok := splitAssign(arg)
		if !ok {
			return nil, fmt.Errorf("%w: %s expects path=value, got %q", errOp, name, arg)
		}
		o.path = p
		o.value = parseValue(v, reg)
	} else if o.path == "=" || o.path == `""` {
		o.path = ""
	}
	segs, err := track.ParsePath(o.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errOp, name, err)
	}
	o.segs = segs
	return o, nil
}

// splitAssign splits arg at the first '=' outside a quoted field.
func splitAssign(arg string) (string, string, bool) {
	quoted := false
	for i := 0; i < len(arg); i++ {
		switch arg[i] {
		case '\\':
			if quoted {
				i++
			}
		case '"':
			quoted = !quoted
		case '=':
			if !quoted {
				return arg[:i], arg[i+1:], true
			}
		}
	}
	return "", "", false
}

// parseValue decodes v as json, falling back to the string itself.
func parseValue(v string, reg *track.Registry) any {
	res, err := codec.Decode([]byte(v), codec.DecodeRegistry(reg))
	if err != nil {
		return v
	}
	return res
}

// sortKey compiles src into a sort key function over plain values. The
// first evaluation error is reported through errp.
func sortKey(src string, errp *error) (func(any) any, error) {
	if src == "" {
		return nil, nil
	}
	prg, err := expr.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: bad sort key: %w", errOp, err)
	}
	return func(v any) any {
		if n, ok := v.(track.Node); ok {
			v = n.Plain()
		}
		res, err := expr.Run(prg, map[string]any{"item": v})
		if err != nil && *errp == nil {
			*errp = fmt.Errorf("sort key %q: %w", src, err)
		}
		return res
	}, nil
}

type applier struct {
	key     string
	reverse bool
	// popped values, in order
	popped []any
}

func (a *applier) apply(doc any, o *op) error {
	switch o.name {
	case "set", "setdefault", "del", "pop":
		return a.applyToParent(doc, o)
	}
	target, err := track.GetSegments(doc, o.segs)
	if err != nil {
		return err
	}
	if o.name == "clear" {
		m, ok := target.(*track.Map)
		if !ok {
			return fmt.Errorf("%w: clear requires a tracked map, got %T", track.ErrNotContainer, target)
		}
		return m.Clear()
	}
	l, ok := target.(*track.List)
	if !ok {
		return fmt.Errorf("%w: %s requires a tracked list, got %T", track.ErrNotContainer, o.name, target)
	}
	switch o.name {
	case "append":
		return l.Append(o.value)
	case "extend":
		var vs []any
		switch src := o.value.(type) {
		case *track.List:
			for _, v := range src.All() {
				vs = append(vs, v)
			}
		case []any:
			vs = src
		default:
			return fmt.Errorf("%w: extend requires a json array, got %s", errOp, valueString(o.value))
		}
		return l.Extend(vs...)
	case "remove":
		return l.Remove(o.value)
	case "sort":
		var keyErr error
		key, err := sortKey(a.key, &keyErr)
		if err != nil {
			return err
		}
		if err := l.Sort(key, a.reverse); err != nil {
			return err
		}
		return keyErr
	}
	return fmt.Errorf("%w: unknown operation %q", errOp, o.name)
}

func (a *applier) applyToParent(doc any, o *op) error {
	n := len(o.segs)
	if n == 0 {
		return fmt.Errorf("%w: %s requires a non empty path", errOp, o.name)
	}
	parent, err := track.GetSegments(doc, o.segs[:n-1])
	if err != nil {
		return err
	}
	last := o.segs[n-1]
	switch x := parent.(type) {
	case *track.Map:
		if last.Field == nil {
			return fmt.Errorf("%w: index %s into a map", track.ErrBadPath, last)
		}
		switch o.name {
		case "set":
			return x.Set(*last.Field, o.value)
		case "setdefault":
			_, err := x.SetDefault(*last.Field, o.value)
			return err
		case "del":
			return x.Delete(*last.Field)
		case "pop":
			v, err := x.Pop(*last.Field)
			if err == nil {
				a.popped = append(a.popped, v)
			}
			return err
		}
	case *track.List:
		if last.Index == nil {
			return fmt.Errorf("%w: field %s of a list", track.ErrBadPath, last)
		}
		switch o.name {
		case "set":
			return x.SetAt(*last.Index, o.value)
		case "del":
			return x.DeleteAt(*last.Index)
		case "pop":
			v, err := x.Pop(*last.Index)
			if err == nil {
				a.popped = append(a.popped, v)
			}
			return err
		case "setdefault":
			return fmt.Errorf("%w: setdefault requires a map", track.ErrNotContainer)
		}
	}
	return fmt.Errorf("%w: %s below %T", track.ErrNotContainer, o.name, parent)
}

// applyOps applies ops in order, naming the failing one.
func (a *applier) applyOps(doc any, ops []*op) error {
	for i, o := range ops {
		if err := a.apply(doc, o); err != nil {
			return fmt.Errorf("operation %d (%s): %w", i+1, o, err)
		}
	}
	return nil
}
