package dialog

import (
	"context"
	"errors"
	"strings"

	"github.com/ncruces/zenity"
	"go.uber.org/zap"

	"github.com/humanloop/hitl-mcp/internal/platform"
	"github.com/humanloop/hitl-mcp/internal/prompt"
)

// Native renders prompts as desktop dialogs through zenity. Availability is
// probed once at construction; there is no process-wide GUI state.
type Native struct {
	available bool
	log       *zap.Logger
}

// NewNative creates the desktop dialog renderer.
func NewNative(log *zap.Logger) *Native {
	return &Native{
		available: platform.HasDisplay(),
		log:       log,
	}
}

// Name implements Renderer.
func (n *Native) Name() string { return "native" }

// Available implements Renderer.
func (n *Native) Available() bool { return n.available }

// Render implements Renderer. Each dialog is modal and blocks until answered,
// dismissed, or the context expires.
func (n *Native) Render(ctx context.Context, req *prompt.Request) (*prompt.Response, error) {
	if !n.available {
		return nil, ErrUnavailable
	}

	n.log.Debug("showing native dialog",
		zap.String("id", req.ID),
		zap.String("kind", string(req.Kind)))

	switch req.Kind {
	case prompt.KindChoice:
		return n.renderChoice(ctx, req)
	case prompt.KindConfirmation:
		return n.renderConfirmation(ctx, req)
	case prompt.KindInfo:
		return n.renderInfo(ctx, req)
	default:
		return n.renderEntry(ctx, req)
	}
}

// renderEntry covers text, integer, float, and multiline prompts. The desktop
// entry dialog is single-line; multiline content belongs on the web channel.
func (n *Native) renderEntry(ctx context.Context, req *prompt.Request) (*prompt.Response, error) {
	text, err := zenity.Entry(req.Prompt,
		zenity.Title(Title(req)),
		zenity.EntryText(req.Default),
		zenity.Context(ctx))
	if err != nil {
		return outcomeFromError(ctx, err)
	}
	return &prompt.Response{Raw: text, Action: prompt.ActionAccepted}, nil
}

func (n *Native) renderChoice(ctx context.Context, req *prompt.Request) (*prompt.Response, error) {
	opts := []zenity.Option{
		zenity.Title(Title(req)),
		zenity.Context(ctx),
	}

	if req.AllowMultiple {
		selected, err := zenity.ListMultiple(req.Prompt, req.Choices, opts...)
		if err != nil {
			return outcomeFromError(ctx, err)
		}
		if len(selected) == 0 {
			return &prompt.Response{Action: prompt.ActionCancelled}, nil
		}
		return &prompt.Response{
			Raw:    strings.Join(selected, ", "),
			Action: prompt.ActionAccepted,
		}, nil
	}

	selected, err := zenity.List(req.Prompt, req.Choices, opts...)
	if err != nil {
		return outcomeFromError(ctx, err)
	}
	return &prompt.Response{Raw: selected, Action: prompt.ActionAccepted}, nil
}

func (n *Native) renderConfirmation(ctx context.Context, req *prompt.Request) (*prompt.Response, error) {
	confirm, cancel := req.ConfirmText, req.CancelText
	if confirm == "" {
		confirm = "Yes"
	}
	if cancel == "" {
		cancel = "No"
	}

	err := zenity.Question(req.Prompt,
		zenity.Title(Title(req)),
		zenity.OKLabel(confirm),
		zenity.CancelLabel(cancel),
		zenity.Context(ctx))
	switch {
	case err == nil:
		return &prompt.Response{Raw: "yes", Action: prompt.ActionAccepted}, nil
	case errors.Is(err, zenity.ErrCanceled):
		// The question dialog cannot distinguish "No" from a dismissed
		// window; both count as a negative answer.
		if ctx.Err() != nil {
			return &prompt.Response{Action: prompt.ActionTimedOut}, nil
		}
		return &prompt.Response{Raw: "no", Action: prompt.ActionAccepted}, nil
	default:
		return outcomeFromError(ctx, err)
	}
}

func (n *Native) renderInfo(ctx context.Context, req *prompt.Request) (*prompt.Response, error) {
	opts := []zenity.Option{
		zenity.Title(Title(req)),
		zenity.Context(ctx),
	}

	var err error
	switch req.Severity {
	case prompt.SeverityWarning:
		err = zenity.Warning(req.Prompt, opts...)
	case prompt.SeverityError:
		err = zenity.Error(req.Prompt, opts...)
	default:
		err = zenity.Info(req.Prompt, opts...)
	}
	if err != nil && !errors.Is(err, zenity.ErrCanceled) {
		return outcomeFromError(ctx, err)
	}
	if ctx.Err() != nil {
		return &prompt.Response{Action: prompt.ActionTimedOut}, nil
	}
	// Dismissing an info dialog still acknowledges it.
	return &prompt.Response{Raw: "ok", Action: prompt.ActionAccepted}, nil
}

// outcomeFromError maps zenity failures to prompt outcomes. A context expiry
// is a timeout, a cancel is a dismissal, anything else is a real error.
func outcomeFromError(ctx context.Context, err error) (*prompt.Response, error) {
	if ctx.Err() != nil {
		return &prompt.Response{Action: prompt.ActionTimedOut}, nil
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return &prompt.Response{Action: prompt.ActionCancelled}, nil
	}
	return nil, err
}
