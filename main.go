package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mchmarny/brandnav/internal/cli"
)

// Allows `go run .` from the repository root; cmd/brandnav is the release binary.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
}
