package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/mutjson/record"
)

func flush(cfg *FlushConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Flush.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: flush requires a record id", cli.ErrUsage)
	}
	id := args[0]
	ops, err := parseOps(args[1:], cfg.column().Registry())
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	s, err := cfg.session()
	if err != nil {
		return err
	}
	ctx := context.Background()
	rec, err := s.Open(ctx, id)
	if errors.Is(err, record.ErrNoRecord) && cfg.Create {
		rec, err = s.Create(id, map[string]any{})
	}
	if err != nil {
		return err
	}

	a := &applier{key: cfg.Key, reverse: cfg.Reverse}
	if err := a.applyOps(rec.Doc, ops); err != nil {
		return err
	}
	for _, p := range a.popped {
		theLog.Info("popped", "value", valueString(p))
	}
	changes := rec.Changes()
	n, err := s.Flush(ctx)
	if err != nil {
		return err
	}
	theLog.Info("flushed", "id", id, "notifications", changes, "written", n > 0)
	return nil
}
