package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/wayplan-core/server/internal/planner/graph/parsers"
	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// ===================================
// Nearby Places Tool
// ===================================

type NearbyInput struct {
	City string `json:"city"`
}

const nearbyPromptFmt = `List 6 cities or towns near %s that are worth a visit.

For each place, provide:
- name: Place name
- distance_km: Distance from %s in kilometers (number)
- transport: Best way to get there (e.g., "Train", "Bus", "Car")
- famous_for: What the place is known for (1 short phrase)
- recommended_duration: Suggested visit length (e.g., "Day trip", "2 days")
- estimated_cost: Estimated cost of the visit in local currency (number)

Return ONLY a valid JSON array.`

func newNearbyTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolNearby,
			Desc: "Get nearby cities and towns worth visiting from the destination, with distances and transport options.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"city": {
					Type:     "string",
					Desc:     "Destination city to search around",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *NearbyInput) (*model.NearbyList, error) {
			content, err := deps.generateText(ctx, fmt.Sprintf(nearbyPromptFmt, in.City, in.City))
			if err != nil {
				logx.Warn().Err(err).Str("city", in.City).Msg("Nearby places generation failed")
				return &model.NearbyList{Error: err.Error()}, nil
			}

			items, err := parsers.ObjectList[model.NearbyPlace](content)
			if err != nil {
				logx.Warn().Err(err).Str("city", in.City).Msg("Nearby places output did not parse")
				return &model.NearbyList{Error: err.Error()}, nil
			}
			return &model.NearbyList{Items: items}, nil
		},
	)
}
