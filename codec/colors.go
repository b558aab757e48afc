package codec

import (
	"github.com/fatih/color"
)

type ColorAttr int

const (
	KeyColor ColorAttr = iota
	StringColor
	NumberColor
	BoolColor
	NullColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	return &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			KeyColor:    color.RGB(128, 168, 196).SprintfFunc(),
			StringColor: color.RGB(8, 196, 16).SprintfFunc(),
			NumberColor: color.RGB(128, 216, 236).SprintfFunc(),
			BoolColor:   color.CyanString,
			NullColor:   color.RGB(168, 0, 196).SprintfFunc(),
			SepColor:    color.RGB(196, 128, 128).SprintfFunc(),
		},
	}
}

func colorDefault(f string, args ...any) string {
	return color.New(color.Reset).Sprintf(f, args...)
}

// Color renders s with the color for a, if any.
func (c *Colors) Color(a ColorAttr, s string) string {
	if c == nil {
		return s
	}
	if f, ok := c.Map[a]; ok {
		return f("%s", s)
	}
	if c.Default != nil {
		return c.Default("%s", s)
	}
	return s
}
