package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/monolink/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if code := cli.ExitCode(err); code != cli.ExitOK {
		cli.PrintError(os.Stderr, err)
		os.Exit(code)
	}
}
