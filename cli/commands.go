package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/humanloop/hitl-mcp/internal/config"
	"github.com/humanloop/hitl-mcp/internal/history"
	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// runValidate checks a response string against a prompt kind and prints the
// typed value, exactly as the server tools would interpret it.
func runValidate(args []string) int {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: hitl-mcp validate <kind> <text>")
		fmt.Fprintf(os.Stderr, "Kinds: %s, %s, %s, %s, %s\n",
			prompt.KindText, prompt.KindInteger, prompt.KindFloat,
			prompt.KindChoice, prompt.KindConfirmation)
		return 1
	}

	kind := prompt.Kind(args[0])
	if !kind.Valid() {
		fmt.Fprintf(os.Stderr, "Unknown kind: %s\n", args[0])
		return 1
	}

	value, err := prompt.Validate(args[1], kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	out, err := json.Marshal(value)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

// runHistory prints recent interactions from the configured history backend,
// newest first, one JSON object per line.
func runHistory(args []string) int {
	// Pull out -n by hand; the remaining args are ordinary config flags.
	limit := 20
	var rest []string
	for i := 0; i < len(args); i++ {
		if (args[i] == "-n" || args[i] == "--n") && i+1 < len(args) {
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid -n value: %s\n", args[i+1])
				return 1
			}
			limit = n
			i++
			continue
		}
		rest = append(rest, args[i])
	}

	cfg, err := config.Load(rest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	hist, err := history.Open(&cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		return 1
	}
	defer hist.Close()

	interactions, err := hist.Recent(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read history: %v\n", err)
		return 1
	}
	if len(interactions) == 0 {
		fmt.Println("No interactions recorded.")
		return 0
	}

	enc := json.NewEncoder(os.Stdout)
	for _, in := range interactions {
		if err := enc.Encode(in); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}
