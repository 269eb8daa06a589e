package nodes

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/wayplan-core/server/internal/planner/graph/expense"
	"github.com/wayplan-core/server/internal/planner/graph/prompts"
	"github.com/wayplan-core/server/internal/planner/graph/results"
	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// NewTripSeederPreHandler creates the pre-handler for the TripSeeder node.
// It initializes the per-run state before the conversation starts.
func NewTripSeederPreHandler() func(context.Context, model.PlanInput, *model.PlanState) (model.PlanInput, error) {
	return func(ctx context.Context, in model.PlanInput, s *model.PlanState) (model.PlanInput, error) {
		s.TripID = in.TripID
		s.Request = in.Request
		s.Trip = model.NewTripState(in.TripID, in.Request)
		s.History = nil
		s.ToolCycles = 0
		s.CycleLimitHit = false
		s.ToolCallIDSeq = 0
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewTripSeederNode creates the TripSeeder node that opens the conversation
// with the system prompt and the trip request as the seed user message.
func NewTripSeederNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.PlanInput) ([]*schema.Message, error) {
		messages, err := prompts.RenderPlannerMessages(ctx, input.Request)
		if err != nil {
			return nil, fmt.Errorf("seed trip conversation: %w", err)
		}
		return messages, nil
	})
}

// NewPlannerModelPreHandler creates the pre-handler for the PlannerModel
// node. It folds incoming messages into the conversation history and, once
// the dispatch cycle cap is hit, appends a wrap-up notice so the model stops
// requesting tools.
func NewPlannerModelPreHandler(maxCycles int) func(context.Context, []*schema.Message, *model.PlanState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.PlanState) ([]*schema.Message, error) {
		// Heuristic fix for Gemini OpenAI-compat: ensure tool results carry tool_call_id
		if len(in) > 0 {
			last := in[len(in)-1]
			if last != nil && last.Role == schema.Tool && strings.TrimSpace(last.ToolCallID) == "" {
				for i := len(state.History) - 1; i >= 0; i-- {
					msg := state.History[i]
					if msg == nil || msg.Role != schema.Assistant || len(msg.ToolCalls) == 0 {
						continue
					}
					id := msg.ToolCalls[0].ID
					if strings.TrimSpace(id) != "" {
						last.ToolCallID = id
					}
					break
				}
			}
		}

		state.History = append(state.History, in...)

		if checkAndMarkCycleLimit(state, maxCycles) {
			maxCycles = normalizeMaxCycles(maxCycles)
			wrapUp := &schema.Message{
				Role: schema.System,
				Content: fmt.Sprintf(
					"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
						"Stop calling tools and summarize the trip data you have already gathered. "+
						"Acknowledge any categories you could not collect.",
					maxCycles,
				),
			}
			state.History = append(state.History, wrapUp)
		}

		return state.History, nil
	}
}

// NewPlannerModelPostHandler creates the post-handler for the PlannerModel
// node: usage-cost accounting, tool-call ID normalization and history upkeep.
func NewPlannerModelPostHandler(modelName string) func(context.Context, *schema.Message, *model.PlanState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.PlanState) (*schema.Message, error) {
		recordUsageCost(state, out, modelName, NodePlannerModel)

		// Normalize tool calls: some providers (Gemini OpenAI-compat) may omit tool_call IDs.
		if out != nil && len(out.ToolCalls) > 0 {
			for i := range out.ToolCalls {
				if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
					state.ToolCallIDSeq++
					out.ToolCalls[i].ID = fmt.Sprintf("call_%d", state.ToolCallIDSeq)
				}
			}
		}

		state.History = append(state.History, out)

		if out != nil && len(out.ToolCalls) > 0 {
			logx.Debug().Int("tool_count", len(out.ToolCalls)).Str("trip_id", state.TripID).Msg("Planner requested tools")
		} else {
			logx.Debug().Str("trip_id", state.TripID).Msg("Planner finished gathering data")
		}

		return out, nil
	}
}

// recordUsageCost folds token usage of a model response into the per-run cost
// total and exposes it on the message Extra.
func recordUsageCost(state *model.PlanState, out *schema.Message, modelName, node string) {
	if !model.CostEnabled() || out == nil || out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	pricing := model.ResolvePricing(modelName)
	inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
	if out.Extra == nil {
		out.Extra = map[string]any{}
	}
	out.Extra["usage_cost"] = map[string]any{
		"currency":          "USD",
		"model":             modelName,
		"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
		"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
		"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
		"input_cost":        inC,
		"output_cost":       outC,
		"total_cost":        totalC,
	}
	logx.Debug().
		Str("trip_id", state.TripID).
		Str("node", node).
		Str("model", modelName).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
		Float64("total_cost_usd", totalC).
		Msg("LLM usage")

	state.TotalCostUSD += totalC
	out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
}

// routeAfterPlanner decides the next node from the planner's output. Once the
// cycle cap has been hit the run is forced into classification, even if the
// message still carries tool calls.
func routeAfterPlanner(limitHit bool, msg *schema.Message) string {
	if limitHit {
		return NodeClassifier
	}
	if msg != nil && len(msg.ToolCalls) > 0 {
		return NodeToolExecutor
	}
	return NodeClassifier
}

// NewToolRouterCondition creates the condition that routes the planner's
// output either into tool execution or on to result classification. The
// output message is an either/or: tool-call requests, or a final answer.
func NewToolRouterCondition() func(context.Context, *schema.Message) (string, error) {
	return func(ctx context.Context, input *schema.Message) (string, error) {
		var limitHit bool
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.PlanState) error {
			limitHit = state.CycleLimitHit
			return nil
		}); err != nil {
			logx.Warn().Err(err).Msg("Failed to read cycle state - routing on tool calls only")
		}

		next := routeAfterPlanner(limitHit, input)
		switch {
		case limitHit:
			logx.Debug().Msg("Cycle limit reached previously - routing to classification")
		case next == NodeToolExecutor:
			logx.Debug().Int("tool_count", len(input.ToolCalls)).Msg("Routing to ToolExecutor")
		default:
			logx.Debug().Msg("No tool calls - routing to classification")
		}
		return next, nil
	}
}

// NewToolExecutorPreHandler creates the pre-handler for the ToolExecutor
// node. Each entry into the executor is one reasoning/dispatch cycle.
func NewToolExecutorPreHandler(maxCycles int) func(context.Context, *schema.Message, *model.PlanState) (*schema.Message, error) {
	return func(ctx context.Context, in *schema.Message, state *model.PlanState) (*schema.Message, error) {
		exceeded := incrementCycleAndCheck(state, maxCycles)

		logx.Debug().
			Int("tool_cycles", state.ToolCycles).
			Str("trip_id", state.TripID).
			Msg("Tool dispatch cycle")

		if exceeded {
			logx.Warn().
				Int("tool_cycles", state.ToolCycles).
				Int("max_cycles", normalizeMaxCycles(maxCycles)).
				Str("trip_id", state.TripID).
				Msg("Tool cycle limit exceeded - flagging and continuing")
		}

		return in, nil
	}
}

// NewClassifierNode creates the node that sorts all accumulated tool results
// into the typed trip-state fields once the planner stops requesting tools.
func NewClassifierNode(classifier *results.Classifier) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, _ *schema.Message) (*model.TripState, error) {
		var trip *model.TripState
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.PlanState) error {
			if state.Trip == nil {
				return fmt.Errorf("missing trip state")
			}
			classifier.Apply(state.History, state.Trip)
			trip = state.Trip
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		logx.Debug().
			Str("trip_id", trip.TripID).
			Bool("weather", trip.Weather != nil).
			Bool("attractions", trip.Attractions != nil).
			Bool("hotels", trip.Hotels != nil).
			Bool("currency", trip.Currency != nil).
			Bool("nearby_places", trip.NearbyPlaces != nil).
			Msg("Tool results classified")
		return trip, nil
	})
}

// NewItineraryNode creates the node that synthesizes the day-by-day
// itinerary with one model call. A model failure degrades to an error string
// in the itinerary field; it never fails the run.
func NewItineraryNode(textModel einomodel.BaseChatModel, modelName string) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, trip *model.TripState) (*model.TripState, error) {
		prompt, err := prompts.RenderItinerary(ctx, trip)
		if err != nil {
			trip.Itinerary = fmt.Sprintf("Error: %v", err)
			return trip, nil
		}

		out, err := textModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
		if err != nil {
			logx.Error().Err(err).Str("trip_id", trip.TripID).Msg("Itinerary synthesis failed")
			trip.Itinerary = fmt.Sprintf("Error: %v", err)
			return trip, nil
		}

		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.PlanState) error {
			recordUsageCost(state, out, modelName, NodeItinerary)
			return nil
		}); err != nil {
			logx.Warn().Err(err).Str("trip_id", trip.TripID).Msg("Failed to record itinerary usage cost")
		}

		trip.Itinerary = out.Content
		return trip, nil
	})
}

// NewExpenseNode creates the terminal node that computes the structured cost
// breakdown from the classified trip data.
func NewExpenseNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, trip *model.TripState) (*model.TripState, error) {
		trip.Expenses = expense.Calculate(trip)
		logx.Debug().
			Str("trip_id", trip.TripID).
			Float64("total", trip.Expenses.Total).
			Str("currency", trip.Expenses.Currency).
			Msg("Expenses calculated")
		return trip, nil
	})
}
