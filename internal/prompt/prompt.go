// Package prompt defines the prompt request model and response validation
// for human-in-the-loop interactions.
package prompt

// Kind identifies what a prompt asks of the human and what shape of
// response it expects.
type Kind string

const (
	// KindText expects a single line of free text.
	KindText Kind = "text"

	// KindInteger expects a base-10 integer.
	KindInteger Kind = "integer"

	// KindFloat expects a floating-point number.
	KindFloat Kind = "float"

	// KindChoice expects one or more selections from a list of options.
	KindChoice Kind = "choice"

	// KindConfirmation expects a yes/no style answer.
	KindConfirmation Kind = "confirmation"

	// KindMultiline expects multi-line free text. Responses validate as text.
	KindMultiline Kind = "multiline"

	// KindInfo displays a message and only expects acknowledgement.
	KindInfo Kind = "info"
)

// Severity classifies an info prompt for display purposes.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Action is the outcome of presenting a prompt to a human.
type Action string

const (
	// ActionAccepted means the human submitted a response.
	ActionAccepted Action = "accepted"

	// ActionCancelled means the human dismissed the prompt.
	ActionCancelled Action = "cancelled"

	// ActionTimedOut means no response arrived before the deadline.
	ActionTimedOut Action = "timed_out"
)

// Request is a single prompt to put in front of a human. One request type
// covers every prompt kind; renderers switch on Kind rather than carrying a
// type per dialog.
type Request struct {
	// ID correlates the request with its response across async channels.
	ID string `json:"id"`

	// Kind selects how the prompt is rendered and validated.
	Kind Kind `json:"kind"`

	// Title is the dialog window or panel title.
	Title string `json:"title,omitempty"`

	// Prompt is the question or message shown to the human.
	Prompt string `json:"prompt"`

	// Default pre-fills the input field for text-like kinds.
	Default string `json:"default,omitempty"`

	// Choices are the selectable options for KindChoice.
	Choices []string `json:"choices,omitempty"`

	// AllowMultiple permits selecting more than one choice.
	AllowMultiple bool `json:"allowMultiple,omitempty"`

	// ConfirmText and CancelText label the confirmation buttons.
	ConfirmText string `json:"confirmText,omitempty"`
	CancelText  string `json:"cancelText,omitempty"`

	// Severity styles info prompts.
	Severity Severity `json:"severity,omitempty"`
}

// Response is what came back from the human, before validation.
type Response struct {
	// Raw is the unprocessed response text. For choices it is the selected
	// options joined with ", "; for confirmations it is "yes" or "no".
	Raw string `json:"raw"`

	// Action records whether the human answered, cancelled, or timed out.
	Action Action `json:"action"`
}

// Accepted reports whether the human actually submitted a response.
func (r *Response) Accepted() bool {
	return r != nil && r.Action == ActionAccepted
}

// ResponseKind maps a prompt kind to the kind its response validates as.
func (k Kind) ResponseKind() Kind {
	switch k {
	case KindMultiline:
		return KindText
	case KindInfo:
		return KindText
	default:
		return k
	}
}

// Interactive reports whether the prompt kind solicits data, as opposed to
// only an acknowledgement.
func (k Kind) Interactive() bool {
	return k != KindInfo
}

// Valid reports whether k is a known prompt kind.
func (k Kind) Valid() bool {
	switch k {
	case KindText, KindInteger, KindFloat, KindChoice, KindConfirmation, KindMultiline, KindInfo:
		return true
	}
	return false
}
