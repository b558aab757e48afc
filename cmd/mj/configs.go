package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/mutjson/codec"
	"github.com/signadot/mutjson/format"
	"github.com/signadot/mutjson/record"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='encode json with color'"`
	Compact bool `cli:"name=c aliases=compact desc='output single line json'"`
	Gops    bool `cli:"name=gops desc='start the gops agent'"`

	J    bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y    bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`
	TOML bool `cli:"name=toml desc='do i/o in toml'"`

	Shallow bool `cli:"name=shallow desc='track only top level mutations'"`

	Config *record.Config

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) configOpt(_ *cli.Context, a string) (any, error) {
	c, err := record.LoadConfig(a)
	if err != nil {
		return nil, err
	}
	cfg.Config = c
	return a, nil
}

// format returns the format selected on the command line, then the one
// configured, then the one named by file's extension, defaulting to json.
func (cfg *MainConfig) format(file string) format.Format {
	switch {
	case cfg.J:
		return format.JSONFormat
	case cfg.Y:
		return format.YAMLFormat
	case cfg.TOML:
		return format.TOMLFormat
	}
	if cfg.Config != nil {
		return cfg.Config.Format
	}
	ext := strings.TrimPrefix(filepath.Ext(file), ".")
	if f, err := format.ParseFormat(ext); err == nil {
		return f
	}
	return format.JSONFormat
}

func (cfg *MainConfig) column() record.Column {
	if cfg.Shallow {
		return record.Shallow
	}
	if cfg.Config != nil {
		return cfg.Config.Column()
	}
	return record.Nested
}

func (cfg *MainConfig) indent() int {
	if cfg.Config != nil && cfg.Config.Indent > 0 {
		return cfg.Config.Indent
	}
	return 2
}

func (cfg *MainConfig) decOpts(file string) []codec.DecodeOption {
	return []codec.DecodeOption{
		codec.DecodeFormat(cfg.format(file)),
		codec.DecodeRegistry(cfg.column().Registry()),
	}
}

func (cfg *MainConfig) encOpts(w io.Writer, f format.Format) []codec.EncodeOption {
	res := []codec.EncodeOption{
		codec.EncodeFormat(f),
		codec.EncodeIndent(cfg.indent()),
		codec.EncodeCompact(cfg.Compact),
	}
	if cfg.colored(w) {
		res = append(res, codec.EncodeColors(codec.NewColors()))
	}
	return res
}

// colored reports whether output to w is colorized: -color when given,
// otherwise whether w is a terminal.
func (cfg *MainConfig) colored(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type EditConfig struct {
	*MainConfig

	Diff    bool   `cli:"name=diff desc='show a line diff instead of the result'"`
	Key     string `cli:"name=key desc='sort key expression over item'"`
	Reverse bool   `cli:"name=r desc='sort in descending order'"`
	Write   bool   `cli:"name=w desc='write the result back when changed'"`

	Edit *cli.Command
}

type FlushConfig struct {
	*MainConfig

	Dir     string `cli:"name=dir desc='record directory'"`
	Key     string `cli:"name=key desc='sort key expression over item'"`
	Reverse bool   `cli:"name=r desc='sort in descending order'"`
	Create  bool   `cli:"name=create desc='create the record as {} if missing'"`

	Flush *cli.Command
}

// session opens the record session for a flush, using -dir over the
// configured directory.
func (cfg *FlushConfig) session() (*record.Session, error) {
	rc := record.DefaultConfig()
	if cfg.Config != nil {
		c := *cfg.Config
		rc = &c
	}
	if cfg.Dir != "" {
		rc.Dir = cfg.Dir
	}
	rc.Format = cfg.format("")
	rc.Nested = cfg.column() == record.Nested
	rc.Indent = cfg.indent()
	if err := rc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return rc.Open(&record.Options{Logger: theLog})
}
