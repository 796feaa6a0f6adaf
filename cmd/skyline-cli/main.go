// Package main консольный клиент Skyline Trips.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/magabrotheeeer/skyline-trips/internal/client/cli"
	"github.com/magabrotheeeer/skyline-trips/internal/lib/sl"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := os.Getenv("SKYLINE_ENV")
	if env == "" {
		env = "prod"
	}
	logger := sl.New(env, os.Stderr)
	if err := cli.NewRootCommand(logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
