package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// ===================================
// Weather Tool
// ===================================

type WeatherInput struct {
	City string `json:"city"`
	Date string `json:"date,omitempty"`
}

type geoResult struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

func newWeatherTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolWeather,
			Desc: "Get the multi-day weather forecast for a city. Returns one midday forecast per day with temperature, condition, humidity and wind speed. Use this for the trip destination city.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"city": {
					Type:     "string",
					Desc:     "City name, e.g. Paris, Tokyo, New York",
					Required: true,
				},
				"date": {
					Type: "string",
					Desc: "Optional arrival date in YYYY-MM-DD format",
				},
			}),
		},
		func(ctx context.Context, in *WeatherInput) (*model.WeatherReport, error) {
			// All failures are reported inside the payload so the workflow
			// never aborts on a weather lookup.
			return fetchWeather(ctx, deps, in.City), nil
		},
	)
}

func fetchWeather(ctx context.Context, deps Deps, city string) *model.WeatherReport {
	if strings.TrimSpace(city) == "" {
		return &model.WeatherReport{Error: "city is required"}
	}
	if deps.Weather.APIKey == "" {
		return &model.WeatherReport{Error: "API key not configured"}
	}

	client := deps.httpClient(deps.Weather.TimeoutSeconds)

	geo, err := geocodeCity(ctx, client, deps.Weather, city)
	if err != nil {
		logx.Warn().Err(err).Str("city", city).Msg("Weather geocoding failed")
		return &model.WeatherReport{Error: err.Error()}
	}

	forecasts, err := fetchForecasts(ctx, client, deps.Weather, geo.Lat, geo.Lon)
	if err != nil {
		logx.Warn().Err(err).Str("city", city).Msg("Weather forecast fetch failed")
		return &model.WeatherReport{Error: err.Error()}
	}

	country := geo.Country
	if country == "" {
		country = "Unknown"
	}
	return &model.WeatherReport{City: city, Country: country, Forecasts: forecasts}
}

func geocodeCity(ctx context.Context, client *http.Client, cfg model.WeatherConfig, city string) (*geoResult, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", "1")
	q.Set("appid", cfg.APIKey)

	var results []geoResult
	if err := getJSON(ctx, client, cfg.GeoBaseURL+"/direct?"+q.Encode(), &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("City not found")
	}
	return &results[0], nil
}

func fetchForecasts(ctx context.Context, client *http.Client, cfg model.WeatherConfig, lat, lon float64) ([]model.Forecast, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("appid", cfg.APIKey)
	q.Set("units", "metric")

	var resp forecastResponse
	if err := getJSON(ctx, client, cfg.ForecastBaseURL+"/forecast?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	// One midday sample per calendar day, at most five days out.
	var forecasts []model.Forecast
	seen := map[string]bool{}
	for _, item := range resp.List {
		ts := time.Unix(item.Dt, 0)
		dateStr := ts.Format("2006-01-02")
		hour := ts.Hour()

		if !seen[dateStr] && hour >= 12 && hour <= 15 {
			seen[dateStr] = true
			condition := ""
			if len(item.Weather) > 0 {
				condition = titleCase(item.Weather[0].Description)
			}
			forecasts = append(forecasts, model.Forecast{
				Date:        dateStr,
				Day:         ts.Format("Monday"),
				Temperature: round1(item.Main.Temp),
				FeelsLike:   round1(item.Main.FeelsLike),
				Condition:   condition,
				Humidity:    item.Main.Humidity,
				WindSpeed:   round1(item.Wind.Speed),
			})
		}
		if len(forecasts) == 5 {
			break
		}
	}
	return forecasts, nil
}

// getJSON performs a GET with the bounded client and decodes the body.
// Timeouts and non-200 statuses surface as plain errors for the caller to
// fold into the tool's error payload.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
