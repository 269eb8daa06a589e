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
// Top Attractions Tool
// ===================================

type AttractionsInput struct {
	City    string `json:"city"`
	NumDays int    `json:"num_days,omitempty"`
}

const attractionsPromptFmt = `List the top %d attractions in %s.

For each attraction, provide:
- name: Attraction name
- description: Brief description (1 sentence)
- category: Type (Museum, Park, Monument, etc.)
- ticket_price: Estimated ticket price in local currency (number only, if free put 0)
- currency: Currency code (USD, EUR, INR, etc.)
- duration: Recommended visit time (e.g., "2 hours", "Half day")
- rating: Tourist rating out of 5 (number)

Return ONLY a valid JSON array.`

func newAttractionsTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolAttractions,
			Desc: "Get the top attractions for a city, with ticket prices, categories and visit durations.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"city": {
					Type:     "string",
					Desc:     "Destination city to list attractions for",
					Required: true,
				},
				"num_days": {
					Type: "number",
					Desc: "Trip length in days, used to size the list (default: 3)",
				},
			}),
		},
		func(ctx context.Context, in *AttractionsInput) (*model.AttractionList, error) {
			days := in.NumDays
			if days <= 0 {
				days = 3
			}
			count := days * 3
			if count > 10 {
				count = 10
			}

			content, err := deps.generateText(ctx, fmt.Sprintf(attractionsPromptFmt, count, in.City))
			if err != nil {
				logx.Warn().Err(err).Str("city", in.City).Msg("Attractions generation failed")
				return &model.AttractionList{Error: err.Error()}, nil
			}

			items, err := parsers.ObjectList[model.Attraction](content)
			if err != nil {
				logx.Warn().Err(err).Str("city", in.City).Msg("Attractions output did not parse")
				return &model.AttractionList{Error: err.Error()}, nil
			}
			return &model.AttractionList{Items: items}, nil
		},
	)
}
