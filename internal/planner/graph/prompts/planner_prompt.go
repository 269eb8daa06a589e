package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/wayplan-core/server/internal/planner/model"
)

//go:embed template/planner_system.txt
var plannerSystemPrompt string

//go:embed template/planner_seed.txt
var plannerSeedPrompt string

// ServiceName appears in the planner system prompt.
const ServiceName = "Wayplan"

// RenderPlannerMessages renders the system prompt and the seed user message
// that open a trip-planning conversation. Rendering goes through the Eino
// prompt component so prompt callbacks fire.
func RenderPlannerMessages(ctx context.Context, req model.TripRequest) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(plannerSystemPrompt),
		schema.UserMessage(plannerSeedPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"ServiceName": ServiceName,
		"FromCity":    req.FromCity,
		"ToCity":      req.ToCity,
		"ArrivalDate": req.ArrivalDate,
		"ArrivalTime": req.ArrivalTime,
		"NumDays":     req.NumDays,
		"NumAdults":   req.NumAdults,
		"NumKids":     req.NumKids,
	})
	if err != nil {
		return nil, fmt.Errorf("planner prompt render: %w", err)
	}
	if len(msgs) < 2 {
		return nil, fmt.Errorf("planner prompt render: incomplete result")
	}
	return msgs, nil
}
