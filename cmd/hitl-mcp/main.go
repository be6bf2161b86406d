// Package main is the entry point for the hitl-mcp server.
// This is a thin wrapper around the cli package.
package main

import (
	"os"

	"github.com/humanloop/hitl-mcp/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
