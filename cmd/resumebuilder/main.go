package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"resume-builder/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "resumebuilder: %v\n", err)
		os.Exit(1)
	}
}
