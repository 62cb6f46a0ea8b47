// computor: polynomial equation solver (degree 2 or lower)
//
// Reduces an equation in X, reports its degree and solves it, with an
// interactive prompt, batch files, a solve history and an MCP server mode.
//
// Usage:
//
//	computor "5 * X^0 + 4 * X^1 = 4 * X^0"   # Solve one equation
//	computor -g "X^2 - 4 = 0"                # ... and plot it
//	computor                                 # Interactive prompt / stdin
//	computor serve                           # Start MCP server (stdio transport)
//	computor update                          # Update to the latest version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/computor/internal/cli"
	"github.com/HendryAvila/computor/internal/config"
	"github.com/HendryAvila/computor/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return cli.ExitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.New(cfg, server.Version).Run(ctx, os.Args[1:])
}
