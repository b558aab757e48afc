package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/mutjson/format"
	"github.com/signadot/mutjson/track"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	segs, err := track.ParsePath(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		docs, err := readDocs(cfg.MainConfig, file)
		if err != nil {
			return err
		}
		res := make([]any, 0, len(docs))
		for _, doc := range docs {
			v, err := track.GetSegments(doc, segs)
			if err != nil {
				return fmt.Errorf("error getting %s from %s: %w", args[0], file, err)
			}
			res = append(res, v)
		}
		if err := writeValues(cfg.MainConfig, cc, file, res); err != nil {
			return err
		}
	}
	return nil
}

// writeValues writes values found in file. Toml cannot hold values other
// than tables at the top level, so those are written as json.
func writeValues(cfg *MainConfig, cc *cli.Context, file string, vs []any) error {
	f := cfg.format(file)
	if f.IsTOML() {
		for _, v := range vs {
			switch v.(type) {
			case *track.Map, map[string]any:
				continue
			}
			f = format.JSONFormat
			break
		}
	}
	return writeDocs(cfg, cc.Out, f, vs)
}
