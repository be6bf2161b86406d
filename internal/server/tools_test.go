package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/humanloop/hitl-mcp/internal/history"
	"github.com/humanloop/hitl-mcp/internal/prompt"
)

func callReq(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

// payload decodes the JSON text content of a tool result.
func payload(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(tc.Text), &m))
	return m
}

func TestGetUserInputText(t *testing.T) {
	r := &fakeRenderer{name: "native", available: true, resp: accepted("Alice")}
	s, hist := newTestServer(t, r)

	result, err := s.handleGetUserInput(context.Background(), callReq("get_user_input", map[string]any{
		"prompt":        "What is your name?",
		"title":         "Name",
		"default_value": "Bob",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, "Alice", p["user_input"])
	assert.Equal(t, "text", p["input_type"])
	assert.Equal(t, false, p["cancelled"])
	assert.Equal(t, "native", p["channel"])

	require.NotNil(t, r.lastReq)
	assert.Equal(t, prompt.KindText, r.lastReq.Kind)
	assert.Equal(t, "Name", r.lastReq.Title)
	assert.Equal(t, "Bob", r.lastReq.Default)

	recent, err := hist.Recent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "accepted", recent[0].Outcome)
}

func TestGetUserInputIntegerTyped(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("42")})

	result, err := s.handleGetUserInput(context.Background(), callReq("get_user_input", map[string]any{
		"prompt":     "Port?",
		"input_type": "integer",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, float64(42), p["user_input"]) // JSON numbers decode as float64
	assert.Equal(t, "integer", p["input_type"])
}

func TestGetUserInputInvalidValue(t *testing.T) {
	s, hist := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("abc")})

	result, err := s.handleGetUserInput(context.Background(), callReq("get_user_input", map[string]any{
		"prompt":     "Port?",
		"input_type": "integer",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, false, p["success"])
	assert.Equal(t, "Invalid integer format", p["error"])
	assert.Equal(t, "abc", p["user_input"])
	assert.Equal(t, false, p["cancelled"])

	recent, err := hist.Recent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "invalid", recent[0].Outcome)
}

func TestGetUserInputCancelled(t *testing.T) {
	cancelled := &prompt.Response{Action: prompt.ActionCancelled}
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: cancelled})

	result, err := s.handleGetUserInput(context.Background(), callReq("get_user_input", map[string]any{
		"prompt": "Anything?",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, false, p["success"])
	assert.Nil(t, p["user_input"])
	assert.Equal(t, true, p["cancelled"])
}

func TestGetUserInputRejectsBadInputType(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("x")})

	result, err := s.handleGetUserInput(context.Background(), callReq("get_user_input", map[string]any{
		"prompt":     "?",
		"input_type": "choice",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetUserInputRequiresPrompt(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("x")})

	result, err := s.handleGetUserInput(context.Background(), callReq("get_user_input", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetUserChoiceSingle(t *testing.T) {
	r := &fakeRenderer{name: "native", available: true, resp: accepted("Option B")}
	s, _ := newTestServer(t, r)

	result, err := s.handleGetUserChoice(context.Background(), callReq("get_user_choice", map[string]any{
		"prompt":  "Pick one",
		"choices": []any{"Option A", "Option B"},
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, "Option B", p["selected_choice"])
	assert.Equal(t, []any{"Option B"}, p["selected_choices"])
	assert.Equal(t, false, p["allow_multiple"])

	require.NotNil(t, r.lastReq)
	assert.Equal(t, prompt.KindChoice, r.lastReq.Kind)
	assert.Equal(t, []string{"Option A", "Option B"}, r.lastReq.Choices)
}

func TestGetUserChoiceMultiple(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("1, 3")})

	result, err := s.handleGetUserChoice(context.Background(), callReq("get_user_choice", map[string]any{
		"prompt":         "Pick some",
		"choices":        []any{"1", "2", "3"},
		"allow_multiple": true,
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, []any{float64(1), float64(3)}, p["selected_choice"])
	assert.Equal(t, []any{float64(1), float64(3)}, p["selected_choices"])
	assert.Equal(t, true, p["allow_multiple"])
}

func TestGetUserChoiceNoChoices(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("x")})

	result, err := s.handleGetUserChoice(context.Background(), callReq("get_user_choice", map[string]any{
		"prompt":  "Pick one",
		"choices": []any{},
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, false, p["success"])
	assert.Equal(t, "No choices provided", p["error"])
}

func TestGetMultilineInputCounts(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("line one\nline two")})

	result, err := s.handleGetMultilineInput(context.Background(), callReq("get_multiline_input", map[string]any{
		"prompt": "Describe the bug",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, "line one\nline two", p["user_input"])
	assert.Equal(t, float64(17), p["character_count"])
	assert.Equal(t, float64(2), p["line_count"])
}

func TestShowConfirmationConfirmed(t *testing.T) {
	r := &fakeRenderer{name: "native", available: true, resp: accepted("yes")}
	s, _ := newTestServer(t, r)

	result, err := s.handleShowConfirmation(context.Background(), callReq("show_confirmation_dialog", map[string]any{
		"message":      "Delete 3 files?",
		"confirm_text": "Delete",
		"cancel_text":  "Keep",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, true, p["confirmed"])
	assert.Equal(t, "yes", p["response"])

	require.NotNil(t, r.lastReq)
	assert.Equal(t, prompt.KindConfirmation, r.lastReq.Kind)
	assert.Equal(t, "Delete", r.lastReq.ConfirmText)
	assert.Equal(t, "Keep", r.lastReq.CancelText)
}

func TestShowConfirmationDeclined(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("no")})

	result, err := s.handleShowConfirmation(context.Background(), callReq("show_confirmation_dialog", map[string]any{
		"message": "Proceed?",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, false, p["confirmed"])
	assert.Equal(t, "no", p["response"])
}

func TestShowConfirmationCancelled(t *testing.T) {
	cancelled := &prompt.Response{Action: prompt.ActionCancelled}
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: cancelled})

	result, err := s.handleShowConfirmation(context.Background(), callReq("show_confirmation_dialog", map[string]any{
		"message": "Proceed?",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, false, p["success"])
	assert.Equal(t, false, p["confirmed"])
	assert.Equal(t, true, p["cancelled"])
}

func TestShowInfoAcknowledged(t *testing.T) {
	r := &fakeRenderer{name: "native", available: true, resp: accepted("ok")}
	s, _ := newTestServer(t, r)

	result, err := s.handleShowInfo(context.Background(), callReq("show_info_message", map[string]any{
		"message":   "Build finished",
		"info_type": "success",
	}))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, true, p["success"])
	assert.Equal(t, true, p["acknowledged"])
	assert.Equal(t, "success", p["message_type"])

	require.NotNil(t, r.lastReq)
	assert.Equal(t, prompt.KindInfo, r.lastReq.Kind)
	assert.Equal(t, prompt.SeveritySuccess, r.lastReq.Severity)
}

func TestShowInfoRejectsBadType(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: true, resp: accepted("ok")})

	result, err := s.handleShowInfo(context.Background(), callReq("show_info_message", map[string]any{
		"message":   "hi",
		"info_type": "debug",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHealthCheck(t *testing.T) {
	up := &fakeRenderer{name: "native", available: true, resp: accepted("x")}
	down := &fakeRenderer{name: "web", available: false}
	s, hist := newTestServer(t, up, down)

	require.NoError(t, hist.Record(&history.Interaction{ID: "1", Tool: "get_user_input"}))

	result, err := s.handleHealthCheck(context.Background(), callReq("health_check", nil))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, "healthy", p["status"])
	assert.Equal(t, serverName, p["server_name"])
	channels, ok := p["channels"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, channels["native"])
	assert.Equal(t, false, channels["web"])
	assert.Equal(t, float64(1), p["interaction_count"])
}

func TestHealthCheckDegraded(t *testing.T) {
	s, _ := newTestServer(t, &fakeRenderer{name: "native", available: false})

	result, err := s.handleHealthCheck(context.Background(), callReq("health_check", nil))
	require.NoError(t, err)

	p := payload(t, result)
	assert.Equal(t, "degraded", p["status"])
}
