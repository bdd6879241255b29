package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/indaco/rustle/internal/cli"
	"github.com/indaco/rustle/internal/printer"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.New().Run(ctx, os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}
