package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	errx "github.com/wayplan-core/server/internal/core/error"
	"github.com/wayplan-core/server/internal/export"
	"github.com/wayplan-core/server/internal/planner/graph/tools"
	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "AI Travel Planner API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"POST /plan-trip":           "Create a complete trip plan",
			"GET /trip/{trip_id}":       "Get trip plan details",
			"GET /trip/{trip_id}/export": "Export trip plan to Excel",
			"POST /weather":             "Get weather information",
			"POST /attractions":         "Get top attractions",
			"POST /hotels":              "Get hotel recommendations",
			"POST /currency":            "Get currency conversion",
			"POST /nearby-places":       "Get nearby places to visit",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handlePlanTrip(w http.ResponseWriter, r *http.Request) {
	var req model.TripRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	trip, err := s.planner.PlanTrip(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trip_id": trip.TripID,
		"status":  "completed",
		"summary": map[string]string{
			"from":      req.FromCity,
			"to":        req.ToCity,
			"duration":  fmt.Sprintf("%d days", req.NumDays),
			"travelers": fmt.Sprintf("%d adults, %d kids", req.NumAdults, req.NumKids),
		},
	})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.loadTrip(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"trip_id": trip.TripID,
		"trip_details": map[string]any{
			"from_city":    trip.Request.FromCity,
			"to_city":      trip.Request.ToCity,
			"arrival_date": trip.Request.ArrivalDate,
			"num_days":     trip.Request.NumDays,
		},
		"weather":          trip.Weather,
		"attractions":      trip.Attractions,
		"hotels":           trip.Hotels,
		"currency":         trip.Currency,
		"currency_summary": trip.CurrencySummary,
		"nearby_places":    trip.NearbyPlaces,
		"itinerary":        trip.Itinerary,
		"expenses":         trip.Expenses,
	})
}

func (s *Server) handleExportTrip(w http.ResponseWriter, r *http.Request) {
	trip, ok := s.loadTrip(w, r)
	if !ok {
		return
	}

	wb, err := export.Workbook(trip)
	if err != nil {
		logx.Error().Err(err).Str("trip_id", trip.TripID).Msg("Workbook rendering failed")
		writeDetail(w, http.StatusInternalServerError, errx.SystemErrorMessage)
		return
	}
	defer wb.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="trip_plan_%s.xlsx"`, trip.TripID))
	if _, err := wb.WriteTo(w); err != nil {
		// Headers are already out; all that remains is to log
		logx.Error().Err(err).Str("trip_id", trip.TripID).Msg("Workbook write failed")
	}
}

// loadTrip fetches the trip for the route's tripID or writes the error
// response itself.
func (s *Server) loadTrip(w http.ResponseWriter, r *http.Request) (*model.TripState, bool) {
	tripID := chi.URLParam(r, "tripID")
	trip, err := s.store.Get(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, model.ErrTripNotFound) {
			writeDetail(w, http.StatusNotFound, errx.TripNotFoundMessage)
			return nil, false
		}
		writeError(w, err)
		return nil, false
	}
	return trip, true
}

type weatherRequest struct {
	City string `json:"city"`
	Date string `json:"date"`
}

type attractionsRequest struct {
	City    string `json:"city"`
	NumDays int    `json:"num_days"`
}

type hotelsRequest struct {
	City      string `json:"city"`
	NumAdults int    `json:"num_adults"`
	NumKids   int    `json:"num_kids"`
	NumDays   int    `json:"num_days"`
}

type currencyRequest struct {
	FromCity string `json:"from_city"`
	ToCity   string `json:"to_city"`
}

type nearbyRequest struct {
	City string `json:"city"`
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeDetail(w, http.StatusBadRequest, "city is required")
		return
	}
	s.invokeTool(w, r, tools.ToolWeather, req)
}

func (s *Server) handleAttractions(w http.ResponseWriter, r *http.Request) {
	var req attractionsRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeDetail(w, http.StatusBadRequest, "city is required")
		return
	}
	s.invokeTool(w, r, tools.ToolAttractions, req)
}

func (s *Server) handleHotels(w http.ResponseWriter, r *http.Request) {
	var req hotelsRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeDetail(w, http.StatusBadRequest, "city is required")
		return
	}
	s.invokeTool(w, r, tools.ToolHotels, req)
}

func (s *Server) handleCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FromCity) == "" || strings.TrimSpace(req.ToCity) == "" {
		writeDetail(w, http.StatusBadRequest, "from_city and to_city are required")
		return
	}
	s.invokeTool(w, r, tools.ToolCurrency, req)
}

func (s *Server) handleNearbyPlaces(w http.ResponseWriter, r *http.Request) {
	var req nearbyRequest
	if err := decodeBody(r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.City) == "" {
		writeDetail(w, http.StatusBadRequest, "city is required")
		return
	}
	s.invokeTool(w, r, tools.ToolNearby, req)
}

// invokeTool runs one tool directly and relays its JSON payload verbatim.
func (s *Server) invokeTool(w http.ResponseWriter, r *http.Request, name string, args any) {
	argsJSON, err := json.Marshal(args)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, errx.SystemErrorMessage)
		return
	}

	out, err := s.tools.InvokeTool(r.Context(), name, string(argsJSON))
	if err != nil {
		logx.Error().Err(err).Str("tool_name", name).Msg("Direct tool invocation failed")
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(out)); err != nil {
		logx.Error().Err(err).Str("tool_name", name).Msg("Response write failed")
	}
}

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logx.Error().Err(err).Msg("Response encode failed")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeError(w http.ResponseWriter, err error) {
	writeDetail(w, errx.StatusOf(err), errx.MessageOf(err))
}
