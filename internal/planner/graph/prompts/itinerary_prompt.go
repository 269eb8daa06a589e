package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/samber/lo"

	"github.com/wayplan-core/server/internal/planner/model"
)

//go:embed template/itinerary_prompt.txt
var itineraryPrompt string

const noData = "No data"

// RenderItinerary renders the single deterministic prompt for itinerary
// synthesis from whatever trip data classification populated. Missing
// categories render as "No data" so the model works with partial input.
func RenderItinerary(ctx context.Context, trip *model.TripState) (string, error) {
	req := trip.Request
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.UserMessage(itineraryPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"FromCity":        req.FromCity,
		"ToCity":          req.ToCity,
		"ArrivalDate":     req.ArrivalDate,
		"ArrivalTime":     req.ArrivalTime,
		"NumDays":         req.NumDays,
		"NumAdults":       req.NumAdults,
		"NumKids":         req.NumKids,
		"WeatherText":     weatherText(trip.Weather),
		"AttractionsText": attractionsText(trip.Attractions),
		"HotelsText":      hotelsText(trip.Hotels),
		"CurrencyText":    currencyText(trip.CurrencySummary),
		"NearbyText":      nearbyText(trip.NearbyPlaces),
	})
	if err != nil {
		return "", fmt.Errorf("itinerary prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("itinerary prompt render: empty result")
	}
	return msgs[0].Content, nil
}

func weatherText(w *model.WeatherReport) string {
	if w == nil || len(w.Forecasts) == 0 {
		return noData
	}
	lines := lo.Map(w.Forecasts, func(f model.Forecast, _ int) string {
		return fmt.Sprintf("- %s (%s): %.1f°C (feels like %.1f°C), %s, humidity %d%%, wind %.1f m/s",
			f.Date, f.Day, f.Temperature, f.FeelsLike, f.Condition, f.Humidity, f.WindSpeed)
	})
	return strings.Join(lines, "\n")
}

func attractionsText(a *model.AttractionList) string {
	if a == nil || len(a.Items) == 0 {
		return noData
	}
	lines := lo.Map(a.Items, func(it model.Attraction, _ int) string {
		return fmt.Sprintf("- %s (%s): %s | ticket %.2f %s | %s | rating %.1f/5",
			it.Name, it.Category, it.Description, it.TicketPrice, it.Currency, it.Duration, it.Rating)
	})
	return strings.Join(lines, "\n")
}

func hotelsText(h *model.HotelList) string {
	if h == nil || len(h.Items) == 0 {
		return noData
	}
	lines := lo.Map(h.Items, func(it model.Hotel, _ int) string {
		return fmt.Sprintf("- %s (%.1f★, %s): %.2f %s/night, %.2f %s total | guest rating %.1f/10 | %s",
			it.Name, it.StarRating, it.Location, it.PricePerNight, it.Currency,
			it.TotalPrice, it.Currency, it.GuestRating, strings.Join(it.Amenities, ", "))
	})
	return strings.Join(lines, "\n")
}

func currencyText(summary string) string {
	if strings.TrimSpace(summary) == "" {
		return "No info"
	}
	return summary
}

func nearbyText(n *model.NearbyList) string {
	if n == nil || len(n.Items) == 0 {
		return noData
	}
	lines := lo.Map(n.Items, func(it model.NearbyPlace, _ int) string {
		return fmt.Sprintf("- %s: %.0f km by %s | famous for %s | %s | est. cost %.2f",
			it.Name, it.DistanceKm, it.Transport, it.FamousFor, it.RecommendedDuration, it.EstimatedCost)
	})
	return strings.Join(lines, "\n")
}
