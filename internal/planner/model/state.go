package model

import (
	"github.com/cloudwego/eino/schema"
)

// PlanState stores per-invocation state for the trip-planning graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - Each graph invocation gets its own PlanState, so concurrent runs for
//     different trips never share conversation history or trip data.
type PlanState struct {
	TripID  string
	Request TripRequest

	History       []*schema.Message // mutated only inside Eino state handlers
	ToolCycles    int               // completed reasoning/dispatch cycles
	CycleLimitHit bool              // set when the cycle cap is exceeded
	ToolCallIDSeq int               // local sequence to synthesize tool_call_id when provider omits
	Trip          *TripState        // accumulator; classified fields written once

	// Accumulated total LLM cost (USD) across model invocations for this run
	TotalCostUSD float64
}
