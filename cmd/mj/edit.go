package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	"github.com/signadot/mutjson/codec"
	"github.com/signadot/mutjson/record"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func edit(cfg *EditConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Edit.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: edit requires a file", cli.ErrUsage)
	}
	file := args[0]
	if cfg.Write && file == "-" {
		return fmt.Errorf("%w: cannot write back to stdin", cli.ErrUsage)
	}
	ops, err := parseOps(args[1:], cfg.column().Registry())
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	in, err := readFile(file)
	if err != nil {
		return err
	}
	f := cfg.format(file)
	v, err := codec.Decode(in, cfg.decOpts(file)...)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", file, err)
	}
	rec, err := record.NewRecord(file, cfg.column(), v)
	if err != nil {
		return err
	}
	plainOpts := []codec.EncodeOption{codec.EncodeFormat(f), codec.EncodeIndent(cfg.indent())}
	before, err := codec.Marshal(rec.Doc, plainOpts...)
	if err != nil {
		return err
	}

	a := &applier{key: cfg.Key, reverse: cfg.Reverse}
	if err := a.applyOps(rec.Doc, ops); err != nil {
		return err
	}
	theLog.Info("edited", "file", file, "notifications", rec.Changes())
	for _, p := range a.popped {
		theLog.Info("popped", "value", valueString(p))
	}

	after, err := codec.Marshal(rec.Doc, plainOpts...)
	if err != nil {
		return err
	}
	if cfg.Write && rec.Dirty() && !bytes.Equal(before, after) {
		if err := os.WriteFile(file, after, 0644); err != nil {
			return err
		}
	}
	if cfg.Diff {
		_, err := io.WriteString(cc.Out, lineDiff(string(before), string(after), cfg.colored(cc.Out)))
		return err
	}
	return writeDocs(cfg.MainConfig, cc.Out, f, []any{rec.Doc})
}

// lineDiff renders the line differences between a and b, prefixing
// removed lines with '-', added ones with '+' and others with ' '.
func lineDiff(a, b string, colored bool) string {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	buf := &strings.Builder{}
	for _, d := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "-"
			if colored {
				paint = color.New(color.FgRed).Sprint
			}
		case diffpatch.DiffInsert:
			prefix = "+"
			if colored {
				paint = color.New(color.FgGreen).Sprint
			}
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			buf.WriteString(paint(prefix + strings.TrimSuffix(ln, "\n")))
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}
