package model

// ================ Config ================
type PlannerModelConfig struct {
	Model       string  `envconfig:"PLANNER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PLANNER_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"PLANNER_TEMPERATURE" default:"0.3"`
}

// TextModelConfig configures the plain completion model used by itinerary
// synthesis and the LLM-backed tools.
type TextModelConfig struct {
	Model       string  `envconfig:"TEXT_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"TEXT_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"TEXT_TEMPERATURE" default:"0.7"`
}

type WorkflowConfig struct {
	// MaxToolCycles bounds the reasoning/dispatch loop of a single run.
	MaxToolCycles int `envconfig:"WORKFLOW_MAX_TOOL_CYCLES" default:"15"`
}

type StoreConfig struct {
	Backend string `envconfig:"TRIP_STORE_BACKEND" default:"memory"`
	TTL     string `envconfig:"TRIP_STORE_TTL" default:"24h"`
}

type WeatherConfig struct {
	APIKey          string `envconfig:"OPENWEATHER_API_KEY"`
	GeoBaseURL      string `envconfig:"OPENWEATHER_GEO_BASE_URL" default:"http://api.openweathermap.org/geo/1.0"`
	ForecastBaseURL string `envconfig:"OPENWEATHER_FORECAST_BASE_URL" default:"http://api.openweathermap.org/data/2.5"`
	TimeoutSeconds  int    `envconfig:"OPENWEATHER_TIMEOUT_SECONDS" default:"10"`
}

type CurrencyConfig struct {
	BaseURL        string `envconfig:"EXCHANGERATE_BASE_URL" default:"https://api.exchangerate-api.com/v4/latest"`
	TimeoutSeconds int    `envconfig:"EXCHANGERATE_TIMEOUT_SECONDS" default:"10"`
}
