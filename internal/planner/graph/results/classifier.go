package results

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/wayplan-core/server/internal/planner/graph/tools"
	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// CategoryResolver maps a tool name to the trip-state category it was
// registered with. The tool registry satisfies this.
type CategoryResolver interface {
	CategoryOf(name string) (tools.Category, bool)
}

// Classifier sorts accumulated tool results into the typed trip-state
// fields. Each result is correlated back to the tool call that produced it,
// and the tool's declared category decides the destination field; the
// payload shape is never sniffed. When a category appears more than once the
// later result replaces the earlier one.
type Classifier struct {
	resolver CategoryResolver
}

func NewClassifier(resolver CategoryResolver) *Classifier {
	return &Classifier{resolver: resolver}
}

// Apply scans the conversation in encounter order and populates the data
// fields of trip. Unparseable payloads, error payloads and results from
// unregistered tools are skipped; partial data is acceptable.
func (c *Classifier) Apply(history []*schema.Message, trip *model.TripState) {
	callNames := toolCallNames(history)

	for _, msg := range history {
		if msg == nil || msg.Role != schema.Tool {
			continue
		}
		name, ok := callNames[msg.ToolCallID]
		if !ok {
			logx.Debug().Str("tool_call_id", msg.ToolCallID).Msg("Tool result without matching call - skipped")
			continue
		}
		category, ok := c.resolver.CategoryOf(name)
		if !ok {
			logx.Debug().Str("tool", name).Msg("Tool result from unregistered tool - skipped")
			continue
		}
		c.assign(category, msg.Content, trip)
	}
}

// toolCallNames correlates tool-call IDs with the tool names requested in
// assistant messages.
func toolCallNames(history []*schema.Message) map[string]string {
	names := make(map[string]string)
	for _, msg := range history {
		if msg == nil || msg.Role != schema.Assistant {
			continue
		}
		for _, call := range msg.ToolCalls {
			if call.ID != "" {
				names[call.ID] = call.Function.Name
			}
		}
	}
	return names
}

func (c *Classifier) assign(category tools.Category, payload string, trip *model.TripState) {
	switch category {
	case tools.CategoryWeather:
		var report model.WeatherReport
		if err := json.Unmarshal([]byte(payload), &report); err != nil || report.Error != "" {
			skipped(category, err, report.Error)
			return
		}
		trip.Weather = &report

	case tools.CategoryAttractions:
		var list model.AttractionList
		if err := json.Unmarshal([]byte(payload), &list); err != nil || list.Error != "" || len(list.Items) == 0 {
			skipped(category, err, list.Error)
			return
		}
		trip.Attractions = &list

	case tools.CategoryHotels:
		var list model.HotelList
		if err := json.Unmarshal([]byte(payload), &list); err != nil || list.Error != "" || len(list.Items) == 0 {
			skipped(category, err, list.Error)
			return
		}
		trip.Hotels = &list

	case tools.CategoryNearby:
		var list model.NearbyList
		if err := json.Unmarshal([]byte(payload), &list); err != nil || list.Error != "" || len(list.Items) == 0 {
			skipped(category, err, list.Error)
			return
		}
		trip.NearbyPlaces = &list

	case tools.CategoryCurrency:
		var info model.CurrencyInfo
		if err := json.Unmarshal([]byte(payload), &info); err != nil || info.Error != "" {
			skipped(category, err, info.Error)
			return
		}
		trip.Currency = &info
		trip.CurrencySummary = RenderCurrencySummary(&info)
	}
}

func skipped(category tools.Category, err error, payloadErr string) {
	logx.Debug().
		Str("category", string(category)).
		AnErr("parse_error", err).
		Str("payload_error", payloadErr).
		Msg("Tool result skipped during classification")
}

// RenderCurrencySummary formats the human-readable currency block used in
// the itinerary prompt and the trip detail response.
func RenderCurrencySummary(info *model.CurrencyInfo) string {
	if info == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("Currency Conversion:\n")
	b.WriteString(fmt.Sprintf("From: %s (%s)\n", orNA(info.FromCurrency), orNA(info.FromCity)))
	b.WriteString(fmt.Sprintf("To: %s (%s)\n", orNA(info.ToCurrency), orNA(info.ToCity)))
	b.WriteString(fmt.Sprintf("Exchange Rate: 1 %s = %g %s", info.FromCurrency, info.ExchangeRate, info.ToCurrency))
	return b.String()
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
