package nodes

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan-core/server/internal/planner/model"
)

func TestNormalizeMaxCycles(t *testing.T) {
	assert.Equal(t, DefaultMaxToolCycles, normalizeMaxCycles(0))
	assert.Equal(t, DefaultMaxToolCycles, normalizeMaxCycles(-3))
	assert.Equal(t, 7, normalizeMaxCycles(7))
}

func TestIncrementCycleAndCheck(t *testing.T) {
	state := &model.PlanState{}

	for i := 1; i <= 3; i++ {
		exceeded := incrementCycleAndCheck(state, 3)
		assert.False(t, exceeded, "cycle %d should be within the limit", i)
		assert.Equal(t, i, state.ToolCycles)
	}

	exceeded := incrementCycleAndCheck(state, 3)
	assert.True(t, exceeded)
	assert.True(t, state.CycleLimitHit)
}

func TestCheckAndMarkCycleLimit(t *testing.T) {
	state := &model.PlanState{ToolCycles: 2}

	assert.False(t, checkAndMarkCycleLimit(state, 3))
	assert.False(t, state.CycleLimitHit)

	state.ToolCycles = 3
	assert.True(t, checkAndMarkCycleLimit(state, 3))
	assert.True(t, state.CycleLimitHit)

	// Already marked: no second trigger
	assert.False(t, checkAndMarkCycleLimit(state, 3))
}

func TestTripSeederPreHandler_ResetsState(t *testing.T) {
	handler := NewTripSeederPreHandler()
	state := &model.PlanState{
		History:       []*schema.Message{schema.UserMessage("stale")},
		ToolCycles:    9,
		CycleLimitHit: true,
		ToolCallIDSeq: 4,
		TotalCostUSD:  1.23,
	}

	in := model.PlanInput{
		TripID:  "trip-1",
		Request: model.TripRequest{FromCity: "New York", ToCity: "Paris", NumDays: 4, NumAdults: 2},
	}
	out, err := handler(context.Background(), in, state)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	assert.Equal(t, "trip-1", state.TripID)
	assert.Equal(t, "Paris", state.Request.ToCity)
	require.NotNil(t, state.Trip)
	assert.Equal(t, "trip-1", state.Trip.TripID)
	assert.Empty(t, state.History)
	assert.Zero(t, state.ToolCycles)
	assert.False(t, state.CycleLimitHit)
	assert.Zero(t, state.ToolCallIDSeq)
	assert.Zero(t, state.TotalCostUSD)
}

func TestPlannerModelPreHandler_AppendsHistory(t *testing.T) {
	handler := NewPlannerModelPreHandler(5)
	state := &model.PlanState{}

	seed := []*schema.Message{
		schema.SystemMessage("You are a travel planner."),
		schema.UserMessage("Plan my trip."),
	}
	out, err := handler(context.Background(), seed, state)
	require.NoError(t, err)

	assert.Len(t, out, 2)
	assert.Len(t, state.History, 2)
}

func TestPlannerModelPreHandler_WrapUpNoticeOnLimit(t *testing.T) {
	handler := NewPlannerModelPreHandler(2)
	state := &model.PlanState{ToolCycles: 2}

	out, err := handler(context.Background(), []*schema.Message{schema.UserMessage("more")}, state)
	require.NoError(t, err)

	require.True(t, state.CycleLimitHit)
	last := out[len(out)-1]
	assert.Equal(t, schema.System, last.Role)
	assert.Contains(t, last.Content, "SYSTEM NOTICE")
	assert.Contains(t, last.Content, "maximum tool call limit (2)")

	// A second pass must not append another notice
	out, err = handler(context.Background(), nil, state)
	require.NoError(t, err)
	notices := 0
	for _, msg := range out {
		if msg.Role == schema.System && len(msg.Content) > 0 && msg.Content[0] == 'S' {
			notices++
		}
	}
	assert.Equal(t, 1, notices)
}

func TestPlannerModelPreHandler_RepairsToolCallID(t *testing.T) {
	handler := NewPlannerModelPreHandler(5)
	state := &model.PlanState{
		History: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{ID: "call_7", Function: schema.FunctionCall{Name: "get_weather_info"}},
				},
			},
		},
	}

	orphan := &schema.Message{Role: schema.Tool, Content: `{"city":"Paris"}`}
	_, err := handler(context.Background(), []*schema.Message{orphan}, state)
	require.NoError(t, err)

	assert.Equal(t, "call_7", orphan.ToolCallID)
}

func TestPlannerModelPostHandler_NormalizesToolCallIDs(t *testing.T) {
	handler := NewPlannerModelPostHandler("gemini-2.5-flash")
	state := &model.PlanState{ToolCallIDSeq: 2}

	out := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{Function: schema.FunctionCall{Name: "get_weather_info"}},
			{ID: "keep-me", Function: schema.FunctionCall{Name: "convert_currency"}},
			{Function: schema.FunctionCall{Name: "get_hotel_recommendations"}},
		},
	}

	res, err := handler(context.Background(), out, state)
	require.NoError(t, err)

	assert.Equal(t, "call_3", res.ToolCalls[0].ID)
	assert.Equal(t, "keep-me", res.ToolCalls[1].ID)
	assert.Equal(t, "call_4", res.ToolCalls[2].ID)
	assert.Equal(t, 4, state.ToolCallIDSeq)

	require.Len(t, state.History, 1)
	assert.Same(t, out, state.History[0])
}

func TestRouteAfterPlanner(t *testing.T) {
	withCalls := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: "call_1", Function: schema.FunctionCall{Name: "get_weather_info"}},
		},
	}
	finalAnswer := &schema.Message{Role: schema.Assistant, Content: "All data gathered."}

	type input struct {
		limitHit bool
		msg      *schema.Message
	}
	tests := []struct {
		name     string
		input    input
		expected string
	}{
		{
			name:     "tool calls route to the executor",
			input:    input{limitHit: false, msg: withCalls},
			expected: NodeToolExecutor,
		},
		{
			name:     "final answer routes to classification",
			input:    input{limitHit: false, msg: finalAnswer},
			expected: NodeClassifier,
		},
		{
			name:     "cycle limit forces classification even with tool calls",
			input:    input{limitHit: true, msg: withCalls},
			expected: NodeClassifier,
		},
		{
			name:     "cycle limit with a final answer",
			input:    input{limitHit: true, msg: finalAnswer},
			expected: NodeClassifier,
		},
		{
			name:     "nil message routes to classification",
			input:    input{limitHit: false, msg: nil},
			expected: NodeClassifier,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routeAfterPlanner(tt.input.limitHit, tt.input.msg))
		})
	}
}

func TestToolExecutorPreHandler_CountsCycles(t *testing.T) {
	handler := NewToolExecutorPreHandler(2)
	state := &model.PlanState{}

	msg := &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{
			{ID: "call_1", Function: schema.FunctionCall{Name: "get_weather_info"}},
		},
	}

	for i := 1; i <= 2; i++ {
		_, err := handler(context.Background(), msg, state)
		require.NoError(t, err)
		assert.Equal(t, i, state.ToolCycles)
		assert.False(t, state.CycleLimitHit, "cycle %d", i)
	}

	_, err := handler(context.Background(), msg, state)
	require.NoError(t, err)
	assert.True(t, state.CycleLimitHit)
}

func TestRecordUsageCost(t *testing.T) {
	state := &model.PlanState{TripID: "trip-1"}
	out := &schema.Message{
		Role: schema.Assistant,
		ResponseMeta: &schema.ResponseMeta{
			Usage: &schema.TokenUsage{PromptTokens: 1000, CompletionTokens: 500, TotalTokens: 1500},
		},
	}

	recordUsageCost(state, out, "gemini-2.5-flash", NodePlannerModel)

	require.NotNil(t, out.Extra)
	cost, ok := out.Extra["usage_cost"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "USD", cost["currency"])
	assert.Equal(t, 1000, cost["prompt_tokens"])
	assert.Greater(t, state.TotalCostUSD, 0.0)
	assert.Equal(t, state.TotalCostUSD, out.Extra["usage_cost_total_usd"])
}
