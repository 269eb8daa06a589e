package export

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/wayplan-core/server/internal/planner/model"
)

const (
	sheetSummary     = "Trip Summary"
	sheetWeather     = "Weather Forecast"
	sheetAttractions = "Top Attractions"
	sheetHotels      = "Hotel Recommendations"
	sheetExpenses    = "Trip Expenses"
	sheetItinerary   = "Detailed Itinerary"
)

// styles holds the cell styles shared by every sheet of one workbook.
type styles struct {
	title     int
	header    int
	label     int
	totalRow  int
	tableHead int
}

// Workbook renders a completed trip plan as an xlsx workbook. Sheets for
// data the run never gathered are omitted, matching the report layout the
// trip state carries.
func Workbook(trip *model.TripState) (*excelize.File, error) {
	if trip == nil {
		return nil, fmt.Errorf("trip state is nil")
	}

	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create workbook styles: %w", err)
	}

	if err := writeSummarySheet(f, st, trip); err != nil {
		f.Close()
		return nil, err
	}
	// The default sheet is replaced by the summary sheet
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	if trip.Weather != nil && len(trip.Weather.Forecasts) > 0 {
		if err := writeWeatherSheet(f, st, trip.Weather); err != nil {
			f.Close()
			return nil, err
		}
	}
	if trip.Attractions != nil && len(trip.Attractions.Items) > 0 {
		if err := writeAttractionsSheet(f, st, trip.Attractions.Items); err != nil {
			f.Close()
			return nil, err
		}
	}
	if trip.Hotels != nil && len(trip.Hotels.Items) > 0 {
		if err := writeHotelsSheet(f, st, trip.Hotels.Items); err != nil {
			f.Close()
			return nil, err
		}
	}
	if trip.Expenses != nil && len(trip.Expenses.Items) > 0 {
		if err := writeExpensesSheet(f, st, trip.Expenses); err != nil {
			f.Close()
			return nil, err
		}
	}
	if strings.TrimSpace(trip.Itinerary) != "" {
		if err := writeItinerarySheet(f, st, trip.Itinerary); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func newStyles(f *excelize.File) (*styles, error) {
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return nil, err
	}
	label, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	tableHead, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	totalRow, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFFF00"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	return &styles{title: title, header: header, label: label, totalRow: totalRow, tableHead: tableHead}, nil
}

func writeSummarySheet(f *excelize.File, st *styles, trip *model.TripState) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	req := trip.Request

	title := fmt.Sprintf("Trip Plan: %s → %s", orNA(req.FromCity), orNA(req.ToCity))
	if err := f.SetCellValue(sheetSummary, "A1", title); err != nil {
		return err
	}
	if err := f.MergeCell(sheetSummary, "A1", "D1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "A1", st.title); err != nil {
		return err
	}

	rows := [][2]any{
		{"From", orNA(req.FromCity)},
		{"To", orNA(req.ToCity)},
		{"Arrival Date", orNA(req.ArrivalDate)},
		{"Duration", fmt.Sprintf("%d days", req.NumDays)},
		{"Travelers", fmt.Sprintf("%d adults, %d children", req.NumAdults, req.NumKids)},
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+3)
		if err := f.SetSheetRow(sheetSummary, cell, &[]any{row[0], row[1]}); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetSummary, cell, cell, st.label); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheetSummary, "A", "A", 20); err != nil {
		return err
	}
	return f.SetColWidth(sheetSummary, "B", "B", 30)
}

func writeWeatherSheet(f *excelize.File, st *styles, report *model.WeatherReport) error {
	headers := []any{"Date", "Day", "Temperature (°C)", "Feels Like (°C)", "Condition", "Humidity (%)", "Wind (m/s)"}
	rows := lo.Map(report.Forecasts, func(fc model.Forecast, _ int) []any {
		return []any{fc.Date, fc.Day, fc.Temperature, fc.FeelsLike, fc.Condition, fc.Humidity, fc.WindSpeed}
	})
	return writeTableSheet(f, st, sheetWeather, "5-Day Weather Forecast", headers, rows)
}

func writeAttractionsSheet(f *excelize.File, st *styles, items []model.Attraction) error {
	headers := []any{"Name", "Description", "Category", "Ticket Price", "Currency", "Duration", "Rating"}
	rows := lo.Map(items, func(a model.Attraction, _ int) []any {
		return []any{a.Name, a.Description, a.Category, a.TicketPrice, a.Currency, a.Duration, a.Rating}
	})
	return writeTableSheet(f, st, sheetAttractions, "Top Attractions", headers, rows)
}

func writeHotelsSheet(f *excelize.File, st *styles, items []model.Hotel) error {
	headers := []any{"Name", "Star Rating", "Price Per Night", "Currency", "Guest Rating", "Amenities", "Location", "Total Price"}
	rows := lo.Map(items, func(h model.Hotel, _ int) []any {
		return []any{
			h.Name, h.StarRating, h.PricePerNight, h.Currency, h.GuestRating,
			strings.Join(h.Amenities, ", "), h.Location, h.TotalPrice,
		}
	})
	return writeTableSheet(f, st, sheetHotels, "Hotel Recommendations", headers, rows)
}

func writeExpensesSheet(f *excelize.File, st *styles, report *model.ExpenseReport) error {
	headers := []any{"Category", "Description", "Amount", "Currency"}
	rows := lo.Map(report.Items, func(e model.ExpenseItem, _ int) []any {
		return []any{e.Category, e.Description, e.Amount, e.Currency}
	})
	if err := writeTableSheet(f, st, sheetExpenses, "Trip Expenses Breakdown", headers, rows); err != nil {
		return err
	}

	// The last item is the TOTAL row; highlight it
	totalRowIdx := len(rows) + 3
	start := fmt.Sprintf("A%d", totalRowIdx)
	end := fmt.Sprintf("D%d", totalRowIdx)
	return f.SetCellStyle(sheetExpenses, start, end, st.totalRow)
}

func writeItinerarySheet(f *excelize.File, st *styles, itinerary string) error {
	if _, err := f.NewSheet(sheetItinerary); err != nil {
		return fmt.Errorf("create itinerary sheet: %w", err)
	}
	if err := f.SetCellValue(sheetItinerary, "A1", "Detailed Day-by-Day Itinerary"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetItinerary, "A1", "A1", st.header); err != nil {
		return err
	}

	for i, line := range strings.Split(itinerary, "\n") {
		cell := fmt.Sprintf("A%d", i+3)
		if err := f.SetCellValue(sheetItinerary, cell, line); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetItinerary, "A", "A", 100)
}

// writeTableSheet renders one titled data table: merged title in row 1, bold
// shaded header in row 3, data rows below.
func writeTableSheet(f *excelize.File, st *styles, sheet, title string, headers []any, rows [][]any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.header); err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A3", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A3", lastCol+"3", st.tableHead); err != nil {
		return err
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+4)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
