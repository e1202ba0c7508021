// Package main provides the CLI entrypoint for xmlbind.
//
// xmlbind binds XML documents to a YAML schema of types and fields:
//   - decode and roundtrip single documents, reporting recovered anomalies
//   - check many documents in parallel
//   - validate schema files and list their types
//   - generate typed Go bindings
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"xmlbind/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
