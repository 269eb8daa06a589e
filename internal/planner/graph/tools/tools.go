package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// Category tags a tool's result with the trip-state field it feeds. Result
// classification resolves categories through the registry instead of sniffing
// payload shapes, so an ambiguous payload can never land in the wrong field.
type Category string

const (
	CategoryWeather     Category = "weather"
	CategoryAttractions Category = "attractions"
	CategoryHotels      Category = "hotels"
	CategoryCurrency    Category = "currency"
	CategoryNearby      Category = "nearby_places"
)

// Tool names as declared to the planner model.
const (
	ToolWeather     = "get_weather_info"
	ToolAttractions = "get_top_attractions"
	ToolHotels      = "get_hotel_recommendations"
	ToolCurrency    = "convert_currency"
	ToolNearby      = "get_nearby_places"
)

// Deps carries everything the tool implementations need. Text is the plain
// completion model behind the LLM-backed tools; HTTPClient overrides the
// default per-tool client in tests.
type Deps struct {
	Text       einomodel.BaseChatModel
	Weather    model.WeatherConfig
	Currency   model.CurrencyConfig
	HTTPClient *http.Client
}

type entry struct {
	name     string
	category Category
	tool     tool.InvokableTool
}

// Registry is the fixed set of trip-planning capabilities. Every tool is
// registered with its result category; the set never changes after
// construction.
type Registry struct {
	entries []entry
	byName  map[string]entry
}

// NewRegistry builds the registry with all five trip-planning tools.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{byName: make(map[string]entry)}
	r.add(ToolWeather, CategoryWeather, newWeatherTool(deps))
	r.add(ToolAttractions, CategoryAttractions, newAttractionsTool(deps))
	r.add(ToolHotels, CategoryHotels, newHotelsTool(deps))
	r.add(ToolCurrency, CategoryCurrency, newCurrencyTool(deps))
	r.add(ToolNearby, CategoryNearby, newNearbyTool(deps))
	return r
}

func (r *Registry) add(name string, category Category, t tool.InvokableTool) {
	e := entry{name: name, category: category, tool: t}
	r.entries = append(r.entries, e)
	r.byName[name] = e
}

// Tools returns the registered tools for binding into a tools node.
func (r *Registry) Tools() []tool.BaseTool {
	out := make([]tool.BaseTool, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.tool)
	}
	return out
}

// Infos collects the declared ToolInfo of every registered tool.
func (r *Registry) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(r.entries))
	for _, e := range r.entries {
		info, err := e.tool.Info(ctx)
		if err != nil {
			logx.Error().Err(err).Str("tool", e.name).Msg("Failed to get tool info")
			return nil, fmt.Errorf("get info for tool %s: %w", e.name, err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// CategoryOf resolves the result category a tool name was registered with.
func (r *Registry) CategoryOf(name string) (Category, bool) {
	e, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return e.category, true
}

// Invoke runs a single tool by name with raw JSON arguments, for the direct
// tool endpoints that bypass the full workflow. The returned string is the
// tool's JSON payload; lookup failures inside the tool are part of that
// payload, never an error.
func (r *Registry) Invoke(ctx context.Context, name, argumentsJSON string) (string, error) {
	e, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	return e.tool.InvokableRun(ctx, argumentsJSON)
}

// httpClient returns the shared override or a fresh client with the given
// bounded timeout. Every outbound call a tool makes must go through one of
// these so a slow upstream can never hang a run.
func (d Deps) httpClient(timeoutSeconds int) *http.Client {
	if d.HTTPClient != nil {
		return d.HTTPClient
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	return &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second}
}

// generateText runs the plain completion model with a single user prompt.
func (d Deps) generateText(ctx context.Context, prompt string) (string, error) {
	if d.Text == nil {
		return "", fmt.Errorf("text model not configured")
	}
	out, err := d.Text.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if out == nil {
		return "", fmt.Errorf("empty model response")
	}
	return out.Content, nil
}
