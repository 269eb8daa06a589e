package expense

import (
	"fmt"
	"math"

	"github.com/wayplan-core/server/internal/planner/model"
)

// Daily base rates used when no real data is available for a category.
const (
	fallbackHotelPerNight  = 150.0
	fallbackAttractionCost = 200.0
	foodPerPersonPerDay    = 50.0
	transportPerDay        = 30.0
	miscellaneousRate      = 0.1
)

// Calculate produces the cost breakdown for a finished run. It is a pure
// function of the trip state.
//
// The currency code attached to each line is a single running value: it
// starts at USD, the accommodation line may set it from the chosen hotel, and
// the attractions line may set it from the first attraction. Every later line
// uses whatever value is current when it is appended. A later category can
// therefore relabel the currency of the lines that follow it — this matches
// the established output format and is kept deliberately; see DESIGN.md.
func Calculate(trip *model.TripState) *model.ExpenseReport {
	req := trip.Request
	days := req.NumDays
	adults := req.NumAdults
	kids := req.NumKids

	var items []model.ExpenseItem
	currency := "USD"

	// Accommodation: third-ranked hotel, or the last one if fewer exist.
	if trip.Hotels != nil && len(trip.Hotels.Items) > 0 {
		hotels := trip.Hotels.Items
		hotel := hotels[min(2, len(hotels)-1)]

		price := hotel.TotalPrice
		if price <= 0 {
			price = fallbackHotelPerNight * float64(days)
		}
		if hotel.Currency != "" {
			currency = hotel.Currency
		}
		name := hotel.Name
		if name == "" {
			name = "Hotel"
		}
		items = append(items, model.ExpenseItem{
			Category:    "Accommodation",
			Description: fmt.Sprintf("%s - %d nights", name, days),
			Amount:      price,
			Currency:    currency,
		})
	} else {
		items = append(items, model.ExpenseItem{
			Category:    "Accommodation",
			Description: fmt.Sprintf("Estimated hotel - %d nights", days),
			Amount:      fallbackHotelPerNight * float64(days),
			Currency:    currency,
		})
	}

	// Attractions: each ticket weighted by adults plus half per kid.
	if trip.Attractions != nil && len(trip.Attractions.Items) > 0 {
		attractions := trip.Attractions.Items
		var ticketSum float64
		for _, a := range attractions {
			ticketSum += a.TicketPrice
		}
		total := ticketSum * (float64(adults) + float64(kids)*0.5)
		if attractions[0].Currency != "" {
			currency = attractions[0].Currency
		}
		items = append(items, model.ExpenseItem{
			Category:    "Attractions & Activities",
			Description: fmt.Sprintf("Entry tickets for %d attractions", len(attractions)),
			Amount:      round2(total),
			Currency:    currency,
		})
	} else {
		items = append(items, model.ExpenseItem{
			Category:    "Attractions & Activities",
			Description: "Estimated costs",
			Amount:      fallbackAttractionCost,
			Currency:    currency,
		})
	}

	// Food
	items = append(items, model.ExpenseItem{
		Category:    "Food & Dining",
		Description: fmt.Sprintf("%d people × %d days", adults+kids, days),
		Amount:      foodPerPersonPerDay * float64(adults+kids) * float64(days),
		Currency:    currency,
	})

	// Transportation
	items = append(items, model.ExpenseItem{
		Category:    "Local Transportation",
		Description: fmt.Sprintf("Metro, taxis - %d days", days),
		Amount:      transportPerDay * float64(days),
		Currency:    currency,
	})

	// Miscellaneous: 10% of everything so far.
	subtotal := sumAmounts(items)
	items = append(items, model.ExpenseItem{
		Category:    "Miscellaneous",
		Description: "Souvenirs, tips (10%)",
		Amount:      round2(subtotal * miscellaneousRate),
		Currency:    currency,
	})

	// Total row closes the report.
	total := round2(sumAmounts(items))
	items = append(items, model.ExpenseItem{
		Category:    "TOTAL",
		Description: "Total estimated expenses",
		Amount:      total,
		Currency:    currency,
	})

	return &model.ExpenseReport{Items: items, Currency: currency, Total: total}
}

func sumAmounts(items []model.ExpenseItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
