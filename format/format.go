package format

import (
	"errors"
	"fmt"
)

type Format int

const (
	JSONFormat Format = iota
	YAMLFormat
	TOMLFormat
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"j":    JSONFormat,
		"json": JSONFormat,
		"y":    YAMLFormat,
		"yml":  YAMLFormat,
		"yaml": YAMLFormat,
		"toml": TOMLFormat,
	}[v]
	if ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case JSONFormat:
		return []byte("json"), nil
	case YAMLFormat:
		return []byte("yaml"), nil
	case TOMLFormat:
		return []byte("toml"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

// Ext is the file extension, without the dot, used for documents in f.
func (f Format) Ext() string {
	switch f {
	case YAMLFormat:
		return "yaml"
	case TOMLFormat:
		return "toml"
	default:
		return "json"
	}
}

func (f Format) IsJSON() bool { return f == JSONFormat }
func (f Format) IsYAML() bool { return f == YAMLFormat }
func (f Format) IsTOML() bool { return f == TOMLFormat }
