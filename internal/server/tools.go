package server

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/humanloop/hitl-mcp/internal/platform"
	"github.com/humanloop/hitl-mcp/internal/prompt"
	"github.com/humanloop/hitl-mcp/internal/version"
)

// toolNames lists every registered tool, reported by health_check.
var toolNames = []string{
	"get_user_input",
	"get_user_choice",
	"get_multiline_input",
	"show_confirmation_dialog",
	"show_info_message",
	"health_check",
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("get_user_input",
		mcp.WithDescription("Ask the user for a single line of text, an integer, or a float. "+
			"Opens a dialog (or uses the client's own input UI) and waits for the answer."),
		mcp.WithString("title",
			mcp.Description("Title of the input dialog window"),
		),
		mcp.WithString("prompt",
			mcp.Description("The question to show to the user"),
			mcp.Required(),
		),
		mcp.WithString("default_value",
			mcp.Description("Value to pre-fill in the input field"),
		),
		mcp.WithString("input_type",
			mcp.Description("Type of input expected"),
			mcp.Enum("text", "integer", "float"),
			mcp.DefaultString("text"),
		),
	), s.handleGetUserInput)

	s.mcp.AddTool(mcp.NewTool("get_user_choice",
		mcp.WithDescription("Let the user pick from a list of options. "+
			"Returns the selected option, or the ordered selections when multiple are allowed."),
		mcp.WithString("title",
			mcp.Description("Title of the choice dialog window"),
		),
		mcp.WithString("prompt",
			mcp.Description("The question to show to the user"),
			mcp.Required(),
		),
		mcp.WithArray("choices",
			mcp.Description("Options to present to the user"),
			mcp.Required(),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithBoolean("allow_multiple",
			mcp.Description("Whether the user can select more than one option"),
			mcp.DefaultBool(false),
		),
	), s.handleGetUserChoice)

	s.mcp.AddTool(mcp.NewTool("get_multiline_input",
		mcp.WithDescription("Ask the user for longer free-form text such as a description, "+
			"code, or a document."),
		mcp.WithString("title",
			mcp.Description("Title of the input dialog window"),
		),
		mcp.WithString("prompt",
			mcp.Description("The question to show to the user"),
			mcp.Required(),
		),
		mcp.WithString("default_value",
			mcp.Description("Text to pre-fill in the text area"),
		),
	), s.handleGetMultilineInput)

	s.mcp.AddTool(mcp.NewTool("show_confirmation_dialog",
		mcp.WithDescription("Ask the user to confirm or decline before proceeding with an action."),
		mcp.WithString("title",
			mcp.Description("Title of the confirmation dialog"),
		),
		mcp.WithString("message",
			mcp.Description("The message to show to the user"),
			mcp.Required(),
		),
		mcp.WithString("confirm_text",
			mcp.Description("Label for the confirm button"),
			mcp.DefaultString("Yes"),
		),
		mcp.WithString("cancel_text",
			mcp.Description("Label for the cancel button"),
			mcp.DefaultString("No"),
		),
	), s.handleShowConfirmation)

	s.mcp.AddTool(mcp.NewTool("show_info_message",
		mcp.WithDescription("Show the user an informational message and wait for acknowledgement."),
		mcp.WithString("title",
			mcp.Description("Title of the information dialog"),
		),
		mcp.WithString("message",
			mcp.Description("The message to show to the user"),
			mcp.Required(),
		),
		mcp.WithString("info_type",
			mcp.Description("Kind of information"),
			mcp.Enum("info", "warning", "error", "success"),
			mcp.DefaultString("info"),
		),
	), s.handleShowInfo)

	s.mcp.AddTool(mcp.NewTool("health_check",
		mcp.WithDescription("Report server status, available dialog channels, and platform details."),
	), s.handleHealthCheck)
}

// jsonResult encodes a tool payload as a JSON text result. User-level
// failures (cancellation, invalid input) travel inside the payload, not as
// protocol errors.
func (s *Server) jsonResult(payload map[string]any) *mcp.CallToolResult {
	data, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

// failure builds the error payload shared by all tools.
func (s *Server) failure(err error) *mcp.CallToolResult {
	return s.jsonResult(map[string]any{
		"success":   false,
		"error":     err.Error(),
		"cancelled": false,
		"platform":  platform.Name,
	})
}

// outcome maps a response action to its history outcome label.
func outcome(resp *prompt.Response) string {
	switch resp.Action {
	case prompt.ActionAccepted:
		return "accepted"
	case prompt.ActionTimedOut:
		return "timed_out"
	default:
		return "cancelled"
	}
}

func (s *Server) handleGetUserInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	promptText, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	inputType := request.GetString("input_type", "text")
	kind := prompt.Kind(inputType)
	if !kind.Valid() || kind.ResponseKind() != kind {
		return mcp.NewToolResultError("input_type must be one of: text, integer, float"), nil
	}

	req := &prompt.Request{
		ID:      newRequestID(),
		Kind:    kind,
		Title:   request.GetString("title", ""),
		Prompt:  promptText,
		Default: request.GetString("default_value", ""),
	}

	resp, channel, err := s.present(ctx, req)
	if err != nil {
		s.record("get_user_input", req, channel, "", "error")
		return s.failure(err), nil
	}
	if !resp.Accepted() {
		s.record("get_user_input", req, channel, resp.Raw, outcome(resp))
		return s.jsonResult(map[string]any{
			"success":    false,
			"user_input": nil,
			"input_type": inputType,
			"cancelled":  true,
			"channel":    channel,
			"platform":   platform.Name,
		}), nil
	}

	value, verr := prompt.Validate(resp.Raw, kind)
	if verr != nil {
		s.record("get_user_input", req, channel, resp.Raw, "invalid")
		return s.jsonResult(map[string]any{
			"success":    false,
			"error":      verr.Error(),
			"user_input": resp.Raw,
			"input_type": inputType,
			"cancelled":  false,
			"channel":    channel,
			"platform":   platform.Name,
		}), nil
	}

	s.record("get_user_input", req, channel, resp.Raw, "accepted")
	return s.jsonResult(map[string]any{
		"success":    true,
		"user_input": value,
		"input_type": inputType,
		"cancelled":  false,
		"channel":    channel,
		"platform":   platform.Name,
	}), nil
}

func (s *Server) handleGetUserChoice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	promptText, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	choices := request.GetStringSlice("choices", nil)
	if len(choices) == 0 {
		return s.jsonResult(map[string]any{
			"success":   false,
			"error":     "No choices provided",
			"cancelled": false,
			"platform":  platform.Name,
		}), nil
	}
	allowMultiple := request.GetBool("allow_multiple", false)

	req := &prompt.Request{
		ID:            newRequestID(),
		Kind:          prompt.KindChoice,
		Title:         request.GetString("title", ""),
		Prompt:        promptText,
		Choices:       choices,
		AllowMultiple: allowMultiple,
	}

	resp, channel, err := s.present(ctx, req)
	if err != nil {
		s.record("get_user_choice", req, channel, "", "error")
		return s.failure(err), nil
	}
	if !resp.Accepted() {
		s.record("get_user_choice", req, channel, resp.Raw, outcome(resp))
		return s.jsonResult(map[string]any{
			"success":          false,
			"selected_choice":  nil,
			"selected_choices": []any{},
			"allow_multiple":   allowMultiple,
			"cancelled":        true,
			"channel":          channel,
			"platform":         platform.Name,
		}), nil
	}

	value, verr := prompt.Validate(resp.Raw, prompt.KindChoice)
	if verr != nil {
		s.record("get_user_choice", req, channel, resp.Raw, "invalid")
		return s.jsonResult(map[string]any{
			"success":   false,
			"error":     verr.Error(),
			"cancelled": false,
			"channel":   channel,
			"platform":  platform.Name,
		}), nil
	}

	// A single selection stays unwrapped; the list form always carries every
	// selection in input order.
	selections, ok := value.([]any)
	if !ok {
		selections = []any{value}
	}

	s.record("get_user_choice", req, channel, resp.Raw, "accepted")
	return s.jsonResult(map[string]any{
		"success":          true,
		"selected_choice":  value,
		"selected_choices": selections,
		"allow_multiple":   allowMultiple,
		"cancelled":        false,
		"channel":          channel,
		"platform":         platform.Name,
	}), nil
}

func (s *Server) handleGetMultilineInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	promptText, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := &prompt.Request{
		ID:      newRequestID(),
		Kind:    prompt.KindMultiline,
		Title:   request.GetString("title", ""),
		Prompt:  promptText,
		Default: request.GetString("default_value", ""),
	}

	resp, channel, err := s.present(ctx, req)
	if err != nil {
		s.record("get_multiline_input", req, channel, "", "error")
		return s.failure(err), nil
	}
	if !resp.Accepted() {
		s.record("get_multiline_input", req, channel, resp.Raw, outcome(resp))
		return s.jsonResult(map[string]any{
			"success":    false,
			"user_input": nil,
			"cancelled":  true,
			"channel":    channel,
			"platform":   platform.Name,
		}), nil
	}

	value, verr := prompt.Validate(resp.Raw, prompt.KindMultiline)
	if verr != nil {
		s.record("get_multiline_input", req, channel, resp.Raw, "invalid")
		return s.jsonResult(map[string]any{
			"success":    false,
			"error":      verr.Error(),
			"user_input": nil,
			"cancelled":  false,
			"channel":    channel,
			"platform":   platform.Name,
		}), nil
	}
	text := value.(string)

	s.record("get_multiline_input", req, channel, resp.Raw, "accepted")
	return s.jsonResult(map[string]any{
		"success":         true,
		"user_input":      text,
		"character_count": len(text),
		"line_count":      len(strings.Split(text, "\n")),
		"cancelled":       false,
		"channel":         channel,
		"platform":        platform.Name,
	}), nil
}

func (s *Server) handleShowConfirmation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := &prompt.Request{
		ID:          newRequestID(),
		Kind:        prompt.KindConfirmation,
		Title:       request.GetString("title", ""),
		Prompt:      message,
		ConfirmText: request.GetString("confirm_text", "Yes"),
		CancelText:  request.GetString("cancel_text", "No"),
	}

	resp, channel, err := s.present(ctx, req)
	if err != nil {
		s.record("show_confirmation_dialog", req, channel, "", "error")
		return s.failure(err), nil
	}
	if !resp.Accepted() {
		s.record("show_confirmation_dialog", req, channel, resp.Raw, outcome(resp))
		return s.jsonResult(map[string]any{
			"success":   false,
			"confirmed": false,
			"cancelled": true,
			"channel":   channel,
			"platform":  platform.Name,
		}), nil
	}

	value, verr := prompt.Validate(resp.Raw, prompt.KindConfirmation)
	if verr != nil {
		s.record("show_confirmation_dialog", req, channel, resp.Raw, "invalid")
		return s.jsonResult(map[string]any{
			"success":   false,
			"error":     verr.Error(),
			"confirmed": false,
			"cancelled": false,
			"channel":   channel,
			"platform":  platform.Name,
		}), nil
	}
	confirmed := value.(bool)

	response := "no"
	if confirmed {
		response = "yes"
	}
	s.record("show_confirmation_dialog", req, channel, resp.Raw, "accepted")
	return s.jsonResult(map[string]any{
		"success":   true,
		"confirmed": confirmed,
		"response":  response,
		"channel":   channel,
		"platform":  platform.Name,
	}), nil
}

func (s *Server) handleShowInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	infoType := request.GetString("info_type", "info")
	severity := prompt.Severity(infoType)
	switch severity {
	case prompt.SeverityInfo, prompt.SeverityWarning, prompt.SeverityError, prompt.SeveritySuccess:
	default:
		return mcp.NewToolResultError("info_type must be one of: info, warning, error, success"), nil
	}

	req := &prompt.Request{
		ID:       newRequestID(),
		Kind:     prompt.KindInfo,
		Title:    request.GetString("title", ""),
		Prompt:   message,
		Severity: severity,
	}

	resp, channel, err := s.present(ctx, req)
	if err != nil {
		s.record("show_info_message", req, channel, "", "error")
		return s.failure(err), nil
	}

	acknowledged := resp.Accepted()
	s.record("show_info_message", req, channel, resp.Raw, outcome(resp))
	return s.jsonResult(map[string]any{
		"success":      true,
		"acknowledged": acknowledged,
		"message_type": infoType,
		"channel":      channel,
		"platform":     platform.Name,
	}), nil
}

func (s *Server) handleHealthCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channels := make(map[string]bool, len(s.renderers))
	anyAvailable := false
	for _, r := range s.renderers {
		available := r.Available()
		channels[r.Name()] = available
		anyAvailable = anyAvailable || available
	}

	status := "healthy"
	if !anyAvailable {
		status = "degraded"
	}

	payload := map[string]any{
		"status":          status,
		"server_name":     serverName,
		"version":         version.Version,
		"channel":         s.cfg.Dialog.Channel,
		"channels":        channels,
		"dialog_timeout":  s.cfg.Dialog.Timeout.String(),
		"platform":        platform.Current(),
		"tools_available": toolNames,
	}

	if s.history != nil {
		if count, err := s.history.Count(); err == nil {
			payload["interaction_count"] = count
		} else {
			s.log.Warn("history count failed", zap.Error(err))
		}
	}
	return s.jsonResult(payload), nil
}
