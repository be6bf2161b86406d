// Package server exposes the human-interaction tools over the Model Context
// Protocol and routes each prompt to a dialog channel.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/humanloop/hitl-mcp/internal/config"
	"github.com/humanloop/hitl-mcp/internal/dialog"
	"github.com/humanloop/hitl-mcp/internal/history"
	"github.com/humanloop/hitl-mcp/internal/prompt"
	"github.com/humanloop/hitl-mcp/internal/version"
)

const serverName = "human-in-the-loop-mcp"

const serverInstructions = `This server provides tools for pausing and asking
a human for input: single-line and multi-line text, numbers, choices,
confirmations, and informational messages. Only interrupt the human when the
input genuinely cannot be automated or inferred.`

// Server wires the MCP surface to the dialog channels and the history log.
type Server struct {
	cfg       *config.Config
	log       *zap.Logger
	history   history.Backend
	mcp       *mcpserver.MCPServer
	renderers []dialog.Renderer
}

// New creates the MCP server, registers its tools and prompts, and assembles
// the dialog channel chain. The renderers are tried in order; pass them in
// preference order (elicitation first for "auto").
func New(cfg *config.Config, log *zap.Logger, hist history.Backend) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		history: hist,
	}

	hooks := &mcpserver.Hooks{}
	hooks.AddBeforeCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest) {
		log.Info("tool call",
			zap.Any("id", id),
			zap.String("tool", message.Params.Name))
	})
	hooks.AddAfterCallTool(func(ctx context.Context, id any, message *mcp.CallToolRequest, result *mcp.CallToolResult) {
		log.Debug("tool call finished",
			zap.Any("id", id),
			zap.String("tool", message.Params.Name))
	})
	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		log.Error("request failed",
			zap.Any("id", id),
			zap.String("method", string(method)),
			zap.Error(err))
	})

	s.mcp = mcpserver.NewMCPServer(
		serverName,
		version.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithElicitation(),
		mcpserver.WithInstructions(serverInstructions),
		mcpserver.WithRecovery(),
		mcpserver.WithHooks(hooks),
	)

	s.registerTools()
	s.registerPrompts()
	return s
}

// MCP returns the underlying MCP server, used by transports and tests.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// AddRenderer appends a dialog channel to the chain.
func (s *Server) AddRenderer(r dialog.Renderer) {
	s.renderers = append(s.renderers, r)
}

// Serve runs the configured MCP transport until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)

	switch s.cfg.Server.Transport {
	case "stdio":
		s.log.Info("serving MCP over stdio")
		stdio := mcpserver.NewStdioServer(s.mcp)
		return stdio.Listen(ctx, os.Stdin, os.Stdout)

	case "sse":
		s.log.Info("serving MCP over SSE", zap.String("addr", addr))
		sse := mcpserver.NewSSEServer(s.mcp)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			sse.Shutdown(shutdownCtx)
		}()
		return sse.Start(addr)

	case "http":
		s.log.Info("serving MCP over streamable HTTP", zap.String("addr", addr))
		httpSrv := mcpserver.NewStreamableHTTPServer(s.mcp)
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpSrv.Shutdown(shutdownCtx)
		}()
		return httpSrv.Start(addr)

	default:
		return fmt.Errorf("unknown transport %q", s.cfg.Server.Transport)
	}
}

// errNoChannel is reported when no dialog channel can take the prompt.
var errNoChannel = errors.New("no dialog channel available")

// present pushes a prompt through the channel chain and returns the response
// along with the name of the channel that produced it. The configured timeout
// is the ceiling on waiting for the human. In "auto" mode a failing channel
// falls through to the next one; a forced channel reports its error.
func (s *Server) present(ctx context.Context, req *prompt.Request) (*prompt.Response, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Dialog.Timeout.Duration())
	defer cancel()

	auto := s.cfg.Dialog.Channel == "auto"
	var lastErr error

	for _, r := range s.renderers {
		if !auto && r.Name() != s.cfg.Dialog.Channel {
			continue
		}
		if !r.Available() {
			continue
		}
		resp, err := r.Render(ctx, req)
		if err != nil {
			if errors.Is(err, dialog.ErrUnavailable) {
				continue
			}
			if auto {
				s.log.Warn("dialog channel failed, trying next",
					zap.String("channel", r.Name()),
					zap.String("id", req.ID),
					zap.Error(err))
				lastErr = err
				continue
			}
			return nil, r.Name(), err
		}
		return resp, r.Name(), nil
	}

	if lastErr != nil {
		return nil, "", lastErr
	}
	return nil, "", errNoChannel
}

// record appends an interaction to the history log. History failures are
// logged, never surfaced to the tool caller.
func (s *Server) record(tool string, req *prompt.Request, channel, raw, outcome string) {
	if s.history == nil {
		return
	}
	err := s.history.Record(&history.Interaction{
		ID:        req.ID,
		Tool:      tool,
		Kind:      req.Kind,
		Prompt:    req.Prompt,
		Channel:   channel,
		Raw:       raw,
		Outcome:   outcome,
		CreatedAt: time.Now(),
	})
	if err != nil {
		s.log.Warn("recording interaction failed",
			zap.String("id", req.ID), zap.Error(err))
	}
}

// newRequestID returns a fresh prompt correlation ID.
func newRequestID() string {
	return uuid.NewString()
}
