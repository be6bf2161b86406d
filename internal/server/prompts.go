package server

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// guidanceText teaches the model when interrupting the human is worth it.
const guidanceText = `You have access to human-in-the-loop tools that pause and
ask the user for input through dialogs. Only interrupt the user when human
input adds value that cannot be automated or inferred.

Use them for:
1. Ambiguous requirements - instructions that could be read several ways
2. Decision points - choosing between valid alternatives
3. Creative input - subjective choices such as naming, style, or tone
4. Sensitive operations - before destructive or irreversible actions
5. Missing critical information - details absent from the original request
6. Quality feedback - validating intermediate results before continuing
7. Error handling - problems that need user guidance to resolve

Available tools:
- get_user_input: single-line text, integer, or float values
- get_user_choice: selecting from options (optionally several)
- get_multiline_input: long-form text such as descriptions or code
- show_confirmation_dialog: yes/no approval
- show_info_message: status updates needing acknowledgement
- health_check: server and dialog channel status

Best practices:
- Ask specific questions with enough context to answer them
- Provide sensible default values where possible
- Confirm before destructive actions
- Offer a few meaningful choices rather than many overwhelming ones`

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("human_loop_guidance",
		mcp.WithPromptDescription("Guidance on when and how to use the human-in-the-loop tools"),
	), func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: "When and how to ask the human for input",
			Messages: []mcp.PromptMessage{
				{
					Role: mcp.RoleUser,
					Content: mcp.TextContent{
						Type: "text",
						Text: guidanceText,
					},
				},
			},
		}, nil
	})
}
