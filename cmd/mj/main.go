package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/scott-cotton/cli"
)

func main() {
	// an interrupt cancels the command context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.MainContext(ctx, MainCommand())
}
