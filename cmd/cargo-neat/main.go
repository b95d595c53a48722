package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/cargo-neat/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	code := cli.ExitCode(err)
	if code == cli.ExitError {
		fmt.Fprintln(os.Stderr, cli.ErrorMessage(err))
	}
	os.Exit(code)
}

func run(ctx context.Context) error {
	c := cli.New(os.Stdout, os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(cli.CargoArgs(os.Args[1:]))
	return root.ExecuteContext(ctx)
}
