package server

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// ElicitRenderer asks the MCP client to collect the input through its own
// elicitation UI. It must run inside a tool call, since the client session
// travels on the request context.
type ElicitRenderer struct {
	mcp *mcpserver.MCPServer
	log *zap.Logger
}

// NewElicitRenderer creates the elicitation channel for an MCP server.
func NewElicitRenderer(srv *mcpserver.MCPServer, log *zap.Logger) *ElicitRenderer {
	return &ElicitRenderer{mcp: srv, log: log}
}

// Name implements dialog.Renderer.
func (e *ElicitRenderer) Name() string { return "elicit" }

// Available implements dialog.Renderer. Whether the connected client actually
// supports elicitation only surfaces when a request is attempted; the channel
// chain falls through on failure.
func (e *ElicitRenderer) Available() bool { return e.mcp != nil }

// Render implements dialog.Renderer.
func (e *ElicitRenderer) Render(ctx context.Context, req *prompt.Request) (*prompt.Response, error) {
	result, err := e.mcp.RequestElicitation(ctx, mcp.ElicitationRequest{
		Params: mcp.ElicitationParams{
			Message:         elicitationMessage(req),
			RequestedSchema: elicitationSchema(req),
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return &prompt.Response{Action: prompt.ActionTimedOut}, nil
		}
		return nil, fmt.Errorf("elicitation request: %w", err)
	}

	switch result.Action {
	case mcp.ElicitationResponseActionAccept:
		raw, err := rawFromElicitValue(result.Content, req)
		if err != nil {
			return nil, err
		}
		return &prompt.Response{Raw: raw, Action: prompt.ActionAccepted}, nil
	case mcp.ElicitationResponseActionDecline, mcp.ElicitationResponseActionCancel:
		return &prompt.Response{Action: prompt.ActionCancelled}, nil
	default:
		return nil, fmt.Errorf("unexpected elicitation response type %q", result.Action)
	}
}

// elicitationMessage builds the message shown by the client UI. Titles and
// button labels fold into the message, since elicitation has no separate
// fields for them.
func elicitationMessage(req *prompt.Request) string {
	var b strings.Builder
	if req.Title != "" {
		b.WriteString(req.Title)
		b.WriteString(": ")
	}
	if req.Kind == prompt.KindInfo && req.Severity != "" && req.Severity != prompt.SeverityInfo {
		fmt.Fprintf(&b, "[%s] ", strings.ToUpper(string(req.Severity)))
	}
	b.WriteString(req.Prompt)
	return b.String()
}

// elicitationSchema builds the requested schema for a prompt kind. Every
// schema is an object with a single "response" property so the accepted value
// comes back in one well-known place.
func elicitationSchema(req *prompt.Request) map[string]any {
	response := map[string]any{
		"description": "Your response",
	}

	switch req.Kind {
	case prompt.KindInteger:
		response["type"] = "integer"
	case prompt.KindFloat:
		response["type"] = "number"
	case prompt.KindConfirmation:
		response["type"] = "boolean"
		response["description"] = "true to confirm, false to decline"
	case prompt.KindChoice:
		// Elicitation pickers are single-select; multi-select callers get
		// one choice back.
		response["type"] = "string"
		response["enum"] = req.Choices
	case prompt.KindInfo:
		response["type"] = "boolean"
		response["description"] = "Acknowledge this message"
		response["default"] = true
	default:
		response["type"] = "string"
		if req.Default != "" {
			response["default"] = req.Default
		}
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"response": response,
		},
		"required": []string{"response"},
	}
}

// rawFromElicitValue converts the accepted elicitation value back to raw
// response text, which then goes through the same validation as every other
// channel.
func rawFromElicitValue(value any, req *prompt.Request) (string, error) {
	content, ok := value.(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected elicitation value %T", value)
	}
	v, ok := content["response"]
	if !ok {
		return "", fmt.Errorf("elicitation value missing response field")
	}

	switch typed := v.(type) {
	case string:
		return typed, nil
	case bool:
		if typed {
			return "yes", nil
		}
		return "no", nil
	case float64:
		// JSON numbers arrive as float64; keep integers unadorned so
		// integer validation accepts them.
		if typed == math.Trunc(typed) && req.Kind == prompt.KindInteger {
			return strconv.FormatInt(int64(typed), 10), nil
		}
		return strconv.FormatFloat(typed, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unexpected elicitation response type %T", v)
	}
}
