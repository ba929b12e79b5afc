package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"photolab/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "photolab:", err)
		os.Exit(1)
	}
}
