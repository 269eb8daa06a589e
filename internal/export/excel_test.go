package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan-core/server/internal/planner/model"
)

func fullTrip() *model.TripState {
	trip := model.NewTripState("trip-1", model.TripRequest{
		FromCity: "New York", ToCity: "Paris",
		ArrivalDate: "2026-09-10", ArrivalTime: "10:00 AM",
		NumDays: 4, NumAdults: 2, NumKids: 1,
	})
	trip.Weather = &model.WeatherReport{
		City: "Paris", Country: "FR",
		Forecasts: []model.Forecast{
			{Date: "2026-09-10", Day: "Thursday", Temperature: 21.4, FeelsLike: 20.9,
				Condition: "Light Rain", Humidity: 60, WindSpeed: 3.3},
		},
	}
	trip.Attractions = &model.AttractionList{Items: []model.Attraction{
		{Name: "Louvre", Description: "World famous museum.", Category: "Museum",
			TicketPrice: 17, Currency: "EUR", Duration: "Half day", Rating: 4.8},
	}}
	trip.Hotels = &model.HotelList{Items: []model.Hotel{
		{Name: "Hotel Lumière", StarRating: 4, PricePerNight: 120, Currency: "EUR",
			GuestRating: 8.6, Amenities: []string{"WiFi", "Breakfast"},
			Location: "Le Marais", TotalPrice: 480},
	}}
	trip.Expenses = &model.ExpenseReport{
		Items: []model.ExpenseItem{
			{Category: "Accommodation", Description: "Hotel Lumière - 4 nights", Amount: 480, Currency: "EUR"},
			{Category: "TOTAL", Description: "Total estimated expenses", Amount: 480, Currency: "EUR"},
		},
		Currency: "EUR",
		Total:    480,
	}
	trip.Itinerary = "Day 1: arrive and rest.\nDay 2: museums."
	return trip
}

func TestWorkbook_AllSheets(t *testing.T) {
	wb, err := Workbook(fullTrip())
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{
		sheetSummary, sheetWeather, sheetAttractions,
		sheetHotels, sheetExpenses, sheetItinerary,
	}, wb.GetSheetList())

	title, err := wb.GetCellValue(sheetSummary, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Trip Plan: New York → Paris", title)

	travelers, err := wb.GetCellValue(sheetSummary, "B7")
	require.NoError(t, err)
	assert.Equal(t, "2 adults, 1 children", travelers)

	// Amenities lists are flattened to comma-joined strings
	amenities, err := wb.GetCellValue(sheetHotels, "F4")
	require.NoError(t, err)
	assert.Equal(t, "WiFi, Breakfast", amenities)

	condition, err := wb.GetCellValue(sheetWeather, "E4")
	require.NoError(t, err)
	assert.Equal(t, "Light Rain", condition)

	totalCategory, err := wb.GetCellValue(sheetExpenses, "A5")
	require.NoError(t, err)
	assert.Equal(t, "TOTAL", totalCategory)

	itineraryLine, err := wb.GetCellValue(sheetItinerary, "A4")
	require.NoError(t, err)
	assert.Equal(t, "Day 2: museums.", itineraryLine)
}

func TestWorkbook_OmitsEmptySections(t *testing.T) {
	trip := model.NewTripState("trip-2", model.TripRequest{
		FromCity: "New York", ToCity: "Paris", NumDays: 3, NumAdults: 1,
	})

	wb, err := Workbook(trip)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{sheetSummary}, wb.GetSheetList())
}

func TestWorkbook_NilTrip(t *testing.T) {
	_, err := Workbook(nil)
	assert.Error(t, err)
}
