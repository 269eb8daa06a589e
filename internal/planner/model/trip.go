package model

import (
	"fmt"
	"strings"
)

// TripRequest carries the parameters of a single trip-planning run.
// It is validated once at the transport boundary and never mutated afterwards.
type TripRequest struct {
	FromCity    string `json:"from_city"`
	ToCity      string `json:"to_city"`
	ArrivalDate string `json:"arrival_date"`
	ArrivalTime string `json:"arrival_time"`
	NumDays     int    `json:"num_days"`
	NumAdults   int    `json:"num_adults"`
	NumKids     int    `json:"num_kids"`
}

// Validate checks the request against the accepted parameter ranges.
func (r *TripRequest) Validate() error {
	if strings.TrimSpace(r.FromCity) == "" {
		return fmt.Errorf("from_city is required")
	}
	if strings.TrimSpace(r.ToCity) == "" {
		return fmt.Errorf("to_city is required")
	}
	if strings.TrimSpace(r.ArrivalDate) == "" {
		return fmt.Errorf("arrival_date is required")
	}
	if r.NumDays < 1 || r.NumDays > 30 {
		return fmt.Errorf("num_days must be between 1 and 30, got %d", r.NumDays)
	}
	if r.NumAdults < 1 {
		return fmt.Errorf("num_adults must be at least 1, got %d", r.NumAdults)
	}
	if r.NumKids < 0 {
		return fmt.Errorf("num_kids must not be negative, got %d", r.NumKids)
	}
	return nil
}

// ApplyDefaults fills optional request fields the caller may omit.
func (r *TripRequest) ApplyDefaults() {
	if strings.TrimSpace(r.ArrivalTime) == "" {
		r.ArrivalTime = "10:00 AM"
	}
}

// PlanInput is the input of one compiled trip-planning graph invocation.
type PlanInput struct {
	TripID  string      `json:"trip_id"`
	Request TripRequest `json:"request"`
}

// Forecast is a single day of the weather outlook for the destination.
type Forecast struct {
	Date        string  `json:"date"`
	Day         string  `json:"day"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Condition   string  `json:"condition"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// WeatherReport is the weather tool payload. Error is set instead of the
// data fields when the lookup failed.
type WeatherReport struct {
	City      string     `json:"city,omitempty"`
	Country   string     `json:"country,omitempty"`
	Forecasts []Forecast `json:"forecasts,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// Attraction is one sight or activity at the destination.
type Attraction struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	TicketPrice float64 `json:"ticket_price"`
	Currency    string  `json:"currency"`
	Duration    string  `json:"duration"`
	Rating      float64 `json:"rating"`
}

// AttractionList is the attractions tool payload.
type AttractionList struct {
	Items []Attraction `json:"items,omitempty"`
	Error string       `json:"error,omitempty"`
}

// Hotel is one lodging option at the destination.
type Hotel struct {
	Name          string   `json:"name"`
	StarRating    float64  `json:"star_rating"`
	PricePerNight float64  `json:"price_per_night"`
	Currency      string   `json:"currency"`
	GuestRating   float64  `json:"guest_rating"`
	Amenities     []string `json:"amenities"`
	Location      string   `json:"location"`
	TotalPrice    float64  `json:"total_price"`
}

// HotelList is the hotels tool payload.
type HotelList struct {
	Items []Hotel `json:"items,omitempty"`
	Error string  `json:"error,omitempty"`
}

// NearbyPlace is a destination reachable from the trip's target city.
type NearbyPlace struct {
	Name                string  `json:"name"`
	DistanceKm          float64 `json:"distance_km"`
	Transport           string  `json:"transport"`
	FamousFor           string  `json:"famous_for"`
	RecommendedDuration string  `json:"recommended_duration"`
	EstimatedCost       float64 `json:"estimated_cost"`
}

// NearbyList is the nearby-places tool payload.
type NearbyList struct {
	Items []NearbyPlace `json:"items,omitempty"`
	Error string        `json:"error,omitempty"`
}

// CurrencyInfo is the currency tool payload.
type CurrencyInfo struct {
	FromCity     string  `json:"from_city,omitempty"`
	ToCity       string  `json:"to_city,omitempty"`
	FromCurrency string  `json:"from_currency,omitempty"`
	ToCurrency   string  `json:"to_currency,omitempty"`
	ExchangeRate float64 `json:"exchange_rate,omitempty"`
	Message      string  `json:"message,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// ExpenseItem is one line of the trip cost breakdown. The final line is the
// synthetic TOTAL row whose amount equals the sum of all preceding lines.
type ExpenseItem struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
}

// ExpenseReport is the structured cost breakdown computed at the end of a run.
type ExpenseReport struct {
	Items    []ExpenseItem `json:"items"`
	Currency string        `json:"currency"`
	Total    float64       `json:"total"`
}

// TripState accumulates everything gathered and computed for one run. The
// five data fields stay nil until result classification populates them;
// Itinerary and Expenses are written by their own pipeline stages. Once the
// run reaches its terminal stage the state is stored and treated as
// immutable.
type TripState struct {
	TripID  string      `json:"trip_id"`
	Request TripRequest `json:"request"`

	Weather         *WeatherReport  `json:"weather,omitempty"`
	Attractions     *AttractionList `json:"attractions,omitempty"`
	Hotels          *HotelList      `json:"hotels,omitempty"`
	Currency        *CurrencyInfo   `json:"currency,omitempty"`
	CurrencySummary string          `json:"currency_summary,omitempty"`
	NearbyPlaces    *NearbyList     `json:"nearby_places,omitempty"`

	Itinerary string         `json:"itinerary,omitempty"`
	Expenses  *ExpenseReport `json:"expenses,omitempty"`
}

// NewTripState seeds a state with the run identifier and trip parameters.
func NewTripState(tripID string, req TripRequest) *TripState {
	return &TripState{TripID: tripID, Request: req}
}
