package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan-core/server/internal/planner/model"
)

func newTrip(days, adults, kids int) *model.TripState {
	return &model.TripState{
		TripID: "t-1",
		Request: model.TripRequest{
			FromCity:  "New York",
			ToCity:    "Paris",
			NumDays:   days,
			NumAdults: adults,
			NumKids:   kids,
		},
	}
}

func TestCalculate_FallbacksOnly(t *testing.T) {
	trip := newTrip(5, 2, 1)

	report := Calculate(trip)
	require.NotNil(t, report)
	require.Len(t, report.Items, 6)

	// 150*5 hotel, 200 attractions, 50*3*5 food, 30*5 transport
	assert.Equal(t, "Accommodation", report.Items[0].Category)
	assert.Equal(t, "Estimated hotel - 5 nights", report.Items[0].Description)
	assert.Equal(t, 750.0, report.Items[0].Amount)

	assert.Equal(t, "Attractions & Activities", report.Items[1].Category)
	assert.Equal(t, "Estimated costs", report.Items[1].Description)
	assert.Equal(t, 200.0, report.Items[1].Amount)

	assert.Equal(t, "Food & Dining", report.Items[2].Category)
	assert.Equal(t, "3 people × 5 days", report.Items[2].Description)
	assert.Equal(t, 750.0, report.Items[2].Amount)

	assert.Equal(t, "Local Transportation", report.Items[3].Category)
	assert.Equal(t, "Metro, taxis - 5 days", report.Items[3].Description)
	assert.Equal(t, 150.0, report.Items[3].Amount)

	assert.Equal(t, "Miscellaneous", report.Items[4].Category)
	assert.Equal(t, "Souvenirs, tips (10%)", report.Items[4].Description)
	assert.Equal(t, 185.0, report.Items[4].Amount)

	assert.Equal(t, "TOTAL", report.Items[5].Category)
	assert.Equal(t, 2035.0, report.Items[5].Amount)
	assert.Equal(t, 2035.0, report.Total)
	assert.Equal(t, "USD", report.Currency)
}

func TestCalculate_WithGatheredData(t *testing.T) {
	trip := newTrip(4, 2, 2)
	trip.Hotels = &model.HotelList{Items: []model.Hotel{
		{Name: "Budget Inn", TotalPrice: 200, Currency: "EUR"},
		{Name: "Mid Hotel", TotalPrice: 350, Currency: "EUR"},
		{Name: "Hotel Lumière", TotalPrice: 480, Currency: "EUR"},
		{Name: "Grand Palace", TotalPrice: 900, Currency: "EUR"},
	}}
	trip.Attractions = &model.AttractionList{Items: []model.Attraction{
		{Name: "Louvre", TicketPrice: 10, Currency: "EUR"},
		{Name: "Orsay", TicketPrice: 20, Currency: "EUR"},
		{Name: "Eiffel Tower", TicketPrice: 30, Currency: "EUR"},
	}}

	report := Calculate(trip)
	require.Len(t, report.Items, 6)

	// Third-ranked hotel is picked
	assert.Equal(t, "Hotel Lumière - 4 nights", report.Items[0].Description)
	assert.Equal(t, 480.0, report.Items[0].Amount)
	assert.Equal(t, "EUR", report.Items[0].Currency)

	// 60 in tickets, weighted by 2 adults + 2 kids at half price
	assert.Equal(t, "Entry tickets for 3 attractions", report.Items[1].Description)
	assert.Equal(t, 180.0, report.Items[1].Amount)

	// 50 * 4 people * 4 days
	assert.Equal(t, 800.0, report.Items[2].Amount)
	// 30 * 4 days
	assert.Equal(t, 120.0, report.Items[3].Amount)

	subtotal := 480.0 + 180.0 + 800.0 + 120.0
	assert.Equal(t, subtotal*0.1, report.Items[4].Amount)
	assert.Equal(t, subtotal*1.1, report.Total)
	assert.Equal(t, "EUR", report.Currency)
}

func TestCalculate_HotelSelection(t *testing.T) {
	type input struct {
		hotels []model.Hotel
		days   int
	}

	type expected struct {
		description string
		amount      float64
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name: "single hotel picks the only one",
			input: input{
				hotels: []model.Hotel{{Name: "Solo Stay", TotalPrice: 300}},
				days:   3,
			},
			expected: expected{description: "Solo Stay - 3 nights", amount: 300},
		},
		{
			name: "two hotels picks the last",
			input: input{
				hotels: []model.Hotel{
					{Name: "First", TotalPrice: 100},
					{Name: "Second", TotalPrice: 220},
				},
				days: 3,
			},
			expected: expected{description: "Second - 3 nights", amount: 220},
		},
		{
			name: "zero price falls back to nightly rate",
			input: input{
				hotels: []model.Hotel{{Name: "Freebie", TotalPrice: 0}},
				days:   4,
			},
			expected: expected{description: "Freebie - 4 nights", amount: 600},
		},
		{
			name: "unnamed hotel gets a generic label",
			input: input{
				hotels: []model.Hotel{{TotalPrice: 250}},
				days:   2,
			},
			expected: expected{description: "Hotel - 2 nights", amount: 250},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			trip := newTrip(tc.input.days, 1, 0)
			trip.Hotels = &model.HotelList{Items: tc.input.hotels}

			report := Calculate(trip)

			require.NotEmpty(t, report.Items)
			assert.Equal(t, tc.expected.description, report.Items[0].Description)
			assert.Equal(t, tc.expected.amount, report.Items[0].Amount)
		})
	}
}

func TestCalculate_CurrencyRunsForward(t *testing.T) {
	// The hotel sets INR; the attractions carry no currency so every later
	// line keeps INR.
	trip := newTrip(2, 1, 0)
	trip.Hotels = &model.HotelList{Items: []model.Hotel{
		{Name: "Taj", TotalPrice: 9000, Currency: "INR"},
	}}
	trip.Attractions = &model.AttractionList{Items: []model.Attraction{
		{Name: "Gateway", TicketPrice: 100},
	}}

	report := Calculate(trip)

	for _, item := range report.Items {
		assert.Equal(t, "INR", item.Currency, "item %s", item.Category)
	}
	assert.Equal(t, "INR", report.Currency)
}

func TestCalculate_TotalEqualsSumOfLines(t *testing.T) {
	trip := newTrip(7, 3, 2)
	trip.Attractions = &model.AttractionList{Items: []model.Attraction{
		{Name: "A", TicketPrice: 12.34, Currency: "GBP"},
		{Name: "B", TicketPrice: 56.78, Currency: "GBP"},
	}}

	report := Calculate(trip)
	require.Len(t, report.Items, 6)

	var sum float64
	for _, item := range report.Items[:5] {
		sum += item.Amount
	}
	assert.InDelta(t, sum, report.Total, 0.01)
	assert.Equal(t, report.Total, report.Items[5].Amount)
}
