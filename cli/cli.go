// Package cli provides the command-line interface for hitl-mcp.
// It exports Run() and RunWithHooks() to allow extension by wrapper projects.
package cli

import (
	"fmt"
	"os"

	"github.com/humanloop/hitl-mcp/internal/version"
)

// Hooks allows extending the CLI with additional commands.
type Hooks struct {
	// BeforeDispatch is called before command dispatch.
	// Return (handled=true, exitCode) to skip normal dispatch.
	BeforeDispatch func(command string, args []string) (handled bool, exitCode int)

	// CustomHelp returns additional help text to append.
	CustomHelp func() string

	// CustomVersion returns version info to append (optional).
	CustomVersion func() string
}

// Run executes the CLI with the given arguments.
// Returns exit code (0 = success, non-zero = error).
func Run(args []string) int {
	return RunWithHooks(args, nil)
}

// RunWithHooks executes CLI with extension hooks.
func RunWithHooks(args []string, hooks *Hooks) int {
	if len(args) < 1 {
		return runServe(args)
	}

	command := args[0]
	cmdArgs := args[1:]

	if hooks != nil && hooks.BeforeDispatch != nil {
		if handled, code := hooks.BeforeDispatch(command, cmdArgs); handled {
			return code
		}
	}

	switch command {
	case "serve":
		return runServe(cmdArgs)
	case "validate":
		return runValidate(cmdArgs)
	case "history":
		return runHistory(cmdArgs)
	case "help", "-h", "--help":
		printHelp(hooks)
		return 0
	case "version", "-v", "--version":
		printVersion(hooks)
		return 0
	default:
		// A leading dash means serve options without the subcommand.
		if len(command) > 0 && command[0] == '-' {
			return runServe(args)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printHelp(hooks)
		return 1
	}
}

func printHelp(hooks *Hooks) {
	fmt.Println(`Human-in-the-Loop MCP Server

Usage: hitl-mcp [command] [options]

Commands:
  serve           Start the MCP server (default)
  validate        Validate a response the way the server would
  history         Show recorded interactions
  version         Print version and exit
  help            Show this help

Server Options:
  -config         Path to TOML config file (default: hitl-mcp.toml)
  -transport      MCP transport: stdio, sse, http (default: stdio)
  -host           Listen address for sse/http transports
  -port           Listen port for sse/http transports
  -channel        Dialog channel: auto, elicit, native, web (default: auto)
  -timeout        How long to wait for the human (default: 5m)
  -web            Enable the web dialog page
  -web-host       Web dialog listen address (default: 127.0.0.1)
  -web-port       Web dialog listen port (default: 8090)
  -history        Interaction log backend: memory, sqlite, postgresql
  -history-path   SQLite database path
  -history-url    PostgreSQL connection URL
  -log-level      Log level: debug, info, warn, error
  -log-file       Write logs to a file instead of stderr

Examples:
  hitl-mcp serve
  hitl-mcp serve -transport http -port 8080 -channel web -web
  hitl-mcp validate integer 42
  hitl-mcp validate choice "1, Option B, 3"
  hitl-mcp history -n 10 -history sqlite -history-path hitl.db`)

	if hooks != nil && hooks.CustomHelp != nil {
		fmt.Println(hooks.CustomHelp())
	}
}

func printVersion(hooks *Hooks) {
	fmt.Printf("hitl-mcp v%s\n", version.Version)
	if hooks != nil && hooks.CustomVersion != nil {
		fmt.Println(hooks.CustomVersion())
	}
}
