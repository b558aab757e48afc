package record

import (
	"fmt"

	"github.com/signadot/mutjson/track"
)

// Column is the tracking depth of a record's document.
type Column int

const (
	Nested Column = iota
	Shallow
)

var shallowRegistry = track.NewRegistry()

func (c Column) String() string {
	if c == Shallow {
		return "shallow"
	}
	return "nested"
}

// Registry returns the registry used to build documents of the column.
func (c Column) Registry() *track.Registry {
	if c == Shallow {
		return shallowRegistry
	}
	return track.DefaultRegistry
}

// Coerce turns v into a document of the column. A nil v yields a nil
// document. Tracked nodes built by the column's registry are used as is;
// others are rebuilt with it, leaving v alone.
func (c Column) Coerce(v any) (track.Node, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case *track.Map:
		if x == nil {
			return nil, nil
		}
		return c.adopt(x), nil
	case *track.List:
		if x == nil {
			return nil, nil
		}
		return c.adopt(x), nil
	case map[string]any:
		return c.Registry().NewMap(x), nil
	case []any:
		return c.Registry().NewList(x), nil
	}
	return nil, fmt.Errorf("%w: %s column cannot hold %T", track.ErrNotContainer, c, v)
}

func (c Column) adopt(n track.Node) track.Node {
	if n.Registry() == c.Registry() {
		return n
	}
	return c.Registry().Rebuild(n)
}
