package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/mutjson/codec"
	"github.com/signadot/mutjson/format"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	for i, file := range args {
		if i > 0 {
			if _, err := cc.Out.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		docs, err := readDocs(cfg.MainConfig, file)
		if err != nil {
			return err
		}
		if err := writeDocs(cfg.MainConfig, cc.Out, cfg.format(file), docs); err != nil {
			return fmt.Errorf("error encoding %s: %w", file, err)
		}
	}
	return nil
}

// readFile reads file, or stdin when file is "-".
func readFile(file string) ([]byte, error) {
	if file == "-" {
		d, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return d, nil
	}
	d, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("could not open %q: %w", file, err)
	}
	return d, nil
}

// readDocs decodes every document of file. Yaml input may hold several
// documents separated by '---' lines.
func readDocs(cfg *MainConfig, file string) ([]any, error) {
	in, err := readFile(file)
	if err != nil {
		return nil, err
	}
	parts := [][]byte{in}
	if cfg.format(file) == format.YAMLFormat {
		parts = bytes.Split(in, []byte("\n---\n"))
	}
	res := make([]any, 0, len(parts))
	for i, part := range parts {
		doc, err := codec.Decode(part, cfg.decOpts(file)...)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s document %d: %w", file, i, err)
		}
		res = append(res, doc)
	}
	return res, nil
}

func writeDocs(cfg *MainConfig, w io.Writer, f format.Format, docs []any) error {
	opts := cfg.encOpts(w, f)
	for i, doc := range docs {
		if i > 0 {
			if _, err := w.Write([]byte("---\n")); err != nil {
				return err
			}
		}
		if err := codec.Encode(doc, w, opts...); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		if cfg.Compact && f == format.JSONFormat {
			if _, err := w.Write([]byte("\n")); err != nil {
				return err
			}
		}
	}
	return nil
}
