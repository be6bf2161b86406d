// Package webdialog serves dialog prompts to a browser page over WebSocket,
// as the fallback channel when no desktop display or client elicitation is
// available.
package webdialog

import (
	"encoding/json"
	"fmt"

	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// MessageType identifies the type of wire message.
type MessageType string

const (
	// MsgPrompt pushes a prompt request to the page.
	MsgPrompt MessageType = "prompt"

	// MsgResponse carries the human's answer back from the page.
	MsgResponse MessageType = "response"

	// MsgDismiss tells pages to close a prompt that was resolved elsewhere
	// (another tab, a timeout, or a cancelled tool call).
	MsgDismiss MessageType = "dismiss"

	// MsgError reports a malformed message back to the page.
	MsgError MessageType = "error"
)

// Message is the base wire message structure.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ResponseData is the payload of a response message.
type ResponseData struct {
	ID     string        `json:"id"`
	Raw    string        `json:"raw"`
	Action prompt.Action `json:"action"`
}

// DismissData is the payload of a dismiss message.
type DismissData struct {
	ID string `json:"id"`
}

// ErrorData is the payload of an error message.
type ErrorData struct {
	Message string `json:"message"`
}

// NewMessage builds a wire message with a JSON-encoded payload.
func NewMessage(t MessageType, data any) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", t, err)
	}
	return &Message{Type: t, Data: raw}, nil
}

// PromptMessage builds a prompt push message.
func PromptMessage(req *prompt.Request) (*Message, error) {
	return NewMessage(MsgPrompt, req)
}

// DismissMessage builds a dismiss message for a prompt ID.
func DismissMessage(id string) (*Message, error) {
	return NewMessage(MsgDismiss, DismissData{ID: id})
}

// ParseResponse decodes a response message payload.
func ParseResponse(msg *Message) (*ResponseData, error) {
	if msg.Type != MsgResponse {
		return nil, fmt.Errorf("expected response message, got %q", msg.Type)
	}
	var data ResponseData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return nil, fmt.Errorf("decode response message: %w", err)
	}
	if data.ID == "" {
		return nil, fmt.Errorf("response message missing prompt id")
	}
	if data.Action == "" {
		data.Action = prompt.ActionAccepted
	}
	return &data, nil
}
