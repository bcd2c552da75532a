package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"obst/internal/domain"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("track_habit",
		mcp.WithPromptDescription("Guide through defining an observation for something you want to track"),
		mcp.WithArgument("subject",
			mcp.ArgumentDescription("What to track, e.g. sleep, mood, running"),
			mcp.RequiredArgument(),
		),
	), s.handleTrackHabitPrompt)
}

func (s *Server) handleTrackHabitPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	subject := req.Params.Arguments["subject"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Track: %s", subject),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`I want to track %s.

1. Call list_observations to see whether a suitable observation already exists.
2. If not, propose a name and a short list of fields, then call define_observation.
   Field types: %s. Use timestamped=true so every record gets a Date.
3. Ask me for today's values and call append_observation.`, subject, domain.MenuText()),
				},
			},
		},
	}, nil
}
