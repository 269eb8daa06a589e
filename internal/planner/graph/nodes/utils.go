package nodes

import (
	"github.com/wayplan-core/server/internal/planner/model"
)

// DefaultMaxToolCycles bounds the reasoning/dispatch loop when no valid
// limit is configured.
const DefaultMaxToolCycles = 15

// Node names within the trip-planning graph.
const (
	NodeTripSeeder   = "trip_seeder"
	NodePlannerModel = "planner_model"
	NodeToolExecutor = "tool_executor"
	NodeClassifier   = "result_classifier"
	NodeItinerary    = "itinerary_writer"
	NodeExpenses     = "expense_calculator"
)

// ===== Small helpers to keep handlers simple/readable =====
// normalizeMaxCycles returns a sane default when the provided value is invalid.
func normalizeMaxCycles(n int) int {
	if n <= 0 {
		return DefaultMaxToolCycles
	}
	return n
}

// checkAndMarkCycleLimit evaluates whether another dispatch cycle would
// exceed the limit and, if so, marks the state accordingly. Returns true when
// marked now.
func checkAndMarkCycleLimit(state *model.PlanState, max int) bool {
	max = normalizeMaxCycles(max)
	if !state.CycleLimitHit && state.ToolCycles >= max {
		state.CycleLimitHit = true
		return true
	}
	return false
}

// incrementCycleAndCheck increments the cycle count and marks the state if it
// exceeds the limit after incrementing. Returns true when exceeded.
func incrementCycleAndCheck(state *model.PlanState, max int) bool {
	max = normalizeMaxCycles(max)
	state.ToolCycles++
	if state.ToolCycles > max {
		state.CycleLimitHit = true
		return true
	}
	return false
}
