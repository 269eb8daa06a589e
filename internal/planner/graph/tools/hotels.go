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
// Hotel Recommendations Tool
// ===================================

type HotelsInput struct {
	City      string `json:"city"`
	NumAdults int    `json:"num_adults"`
	NumKids   int    `json:"num_kids"`
	NumDays   int    `json:"num_days"`
}

const hotelsPromptFmt = `Suggest 5 hotels in %s for %d adults and %d kids for %d nights.

For each hotel, provide:
- name: Hotel name
- star_rating: Star rating (number)
- price_per_night: Price per night in local currency (number)
- currency: Currency code (USD, EUR, INR, etc.)
- guest_rating: Guest review score out of 10 (number)
- amenities: Array of amenity strings
- location: Neighborhood or area
- total_price: Total price for the whole stay (number)

Return ONLY a valid JSON array.`

func newHotelsTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolHotels,
			Desc: "Get hotel recommendations for a city, sized for the traveler group and trip length, with per-night and total prices.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"city": {
					Type:     "string",
					Desc:     "Destination city to find hotels in",
					Required: true,
				},
				"num_adults": {
					Type:     "number",
					Desc:     "Number of adult travelers",
					Required: true,
				},
				"num_kids": {
					Type: "number",
					Desc: "Number of children (default: 0)",
				},
				"num_days": {
					Type:     "number",
					Desc:     "Number of nights to stay",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *HotelsInput) (*model.HotelList, error) {
			content, err := deps.generateText(ctx,
				fmt.Sprintf(hotelsPromptFmt, in.City, in.NumAdults, in.NumKids, in.NumDays))
			if err != nil {
				logx.Warn().Err(err).Str("city", in.City).Msg("Hotel generation failed")
				return &model.HotelList{Error: err.Error()}, nil
			}

			items, err := parsers.ObjectList[model.Hotel](content)
			if err != nil {
				logx.Warn().Err(err).Str("city", in.City).Msg("Hotel output did not parse")
				return &model.HotelList{Error: err.Error()}, nil
			}
			return &model.HotelList{Items: items}, nil
		},
	)
}
