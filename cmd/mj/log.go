package main

import (
	"log/slog"
	"os"
)

// theLog reports what mj did to stderr, keeping stdout for documents. Lines
// carry no timestamp and only non-INFO levels are shown.
var theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	ReplaceAttr: dropTimeAndInfo,
}))

func dropTimeAndInfo(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.TimeKey:
		return slog.Attr{}
	case a.Key == slog.LevelKey && a.Value.String() == slog.LevelInfo.String():
		return slog.Attr{}
	}
	return a
}
