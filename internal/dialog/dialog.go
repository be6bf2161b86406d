// Package dialog renders prompt requests to a human and collects responses.
// Renderers cover the native desktop channel and the browser channel; the MCP
// elicitation channel lives with the server since it needs the live session.
package dialog

import (
	"context"
	"errors"

	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// ErrUnavailable is returned by a renderer that cannot currently present
// dialogs, letting the caller fall through to the next channel.
var ErrUnavailable = errors.New("dialog channel unavailable")

// Renderer presents a prompt request to a human and returns the response.
// Render blocks until the human answers, the prompt is dismissed, or the
// context expires; context expiry yields a timed-out response, not an error.
type Renderer interface {
	// Name identifies the channel ("native", "web", "elicit").
	Name() string

	// Available reports whether the renderer can currently present dialogs.
	Available() bool

	// Render shows the prompt and waits for the outcome.
	Render(ctx context.Context, req *prompt.Request) (*prompt.Response, error)
}

// DefaultTitle is used when a tool call provides no dialog title.
const DefaultTitle = "Human-in-the-Loop"

// Title returns the request title or the default.
func Title(req *prompt.Request) string {
	if req.Title != "" {
		return req.Title
	}
	return DefaultTitle
}
