package tools

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"

	"github.com/wayplan-core/server/internal/planner/model"
	logx "github.com/wayplan-core/server/pkg/logger"
)

// ===================================
// Currency Conversion Tool
// ===================================

type CurrencyInput struct {
	FromCity string `json:"from_city"`
	ToCity   string `json:"to_city"`
}

type ratesResponse struct {
	Rates map[string]float64 `json:"rates"`
}

var cityCurrencies = map[string]string{
	// United States
	"new york": "USD", "los angeles": "USD", "chicago": "USD", "san francisco": "USD",
	"boston": "USD", "seattle": "USD", "miami": "USD", "las vegas": "USD", "philadelphia": "USD",
	"washington": "USD", "atlanta": "USD", "denver": "USD", "phoenix": "USD", "detroit": "USD",

	// India
	"mumbai": "INR", "delhi": "INR", "bangalore": "INR", "chennai": "INR", "kolkata": "INR",
	"hyderabad": "INR", "pune": "INR", "ahmedabad": "INR", "surat": "INR", "jaipur": "INR",
	"lucknow": "INR", "kanpur": "INR", "nagpur": "INR", "indore": "INR", "thane": "INR",
	"bhopal": "INR", "visakhapatnam": "INR", "pimpri-chinchwad": "INR", "patna": "INR",
	"vadodara": "INR", "ghaziabad": "INR", "ludhiana": "INR", "agra": "INR", "nashik": "INR",
	"faridabad": "INR", "meerut": "INR", "rajkot": "INR", "kalyan-dombivali": "INR",
	"vasai-virar": "INR", "varanasi": "INR", "srinagar": "INR", "aurangabad": "INR",
	"dhanbad": "INR", "amritsar": "INR", "navi mumbai": "INR", "allahabad": "INR",
	"howrah": "INR", "ranchi": "INR", "gwalior": "INR", "jabalpur": "INR", "coimbatore": "INR",

	// United Kingdom
	"london": "GBP", "manchester": "GBP", "edinburgh": "GBP", "birmingham": "GBP",
	"liverpool": "GBP", "bristol": "GBP", "glasgow": "GBP", "leeds": "GBP",

	// European Union
	"paris": "EUR", "berlin": "EUR", "rome": "EUR", "madrid": "EUR", "barcelona": "EUR",
	"amsterdam": "EUR", "vienna": "EUR", "brussels": "EUR", "milan": "EUR", "munich": "EUR",
	"prague": "EUR", "budapest": "EUR", "warsaw": "EUR", "dublin": "EUR", "helsinki": "EUR",

	// Other countries
	"tokyo": "JPY", "osaka": "JPY", "kyoto": "JPY", "yokohama": "JPY",
	"singapore": "SGD", "dubai": "AED", "abu dhabi": "AED",
	"sydney": "AUD", "melbourne": "AUD", "brisbane": "AUD", "perth": "AUD",
	"toronto": "CAD", "vancouver": "CAD", "montreal": "CAD", "calgary": "CAD",
	"beijing": "CNY", "shanghai": "CNY", "guangzhou": "CNY", "shenzhen": "CNY",
	"moscow": "RUB", "st petersburg": "RUB",
	"sao paulo": "BRL", "rio de janeiro": "BRL",
	"mexico city": "MXN", "guadalajara": "MXN",
	"cairo": "EGP", "lagos": "NGN", "johannesburg": "ZAR", "cape town": "ZAR",
}

var indianSuffixes = []string{"nagar", "abad", "pur", "ganj", "garh", "kota", "puram"}
var usSuffixes = []string{"ville", "ton", "burg", "field", "wood", "land", "city"}

// currencyForCity resolves the local currency for a city, falling back to
// name-pattern heuristics and finally USD.
func currencyForCity(city string) string {
	lower := strings.ToLower(strings.TrimSpace(city))
	if curr, ok := cityCurrencies[lower]; ok {
		return curr
	}

	for _, pattern := range indianSuffixes {
		if strings.Contains(lower, pattern) {
			return "INR"
		}
	}
	for _, pattern := range usSuffixes {
		if strings.Contains(lower, pattern) {
			return "USD"
		}
	}
	return "USD"
}

func newCurrencyTool(deps Deps) tool.InvokableTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolCurrency,
			Desc: "Get the exchange rate between the local currencies of the origin and destination cities.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"from_city": {
					Type:     "string",
					Desc:     "Origin city of the trip",
					Required: true,
				},
				"to_city": {
					Type:     "string",
					Desc:     "Destination city of the trip",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *CurrencyInput) (*model.CurrencyInfo, error) {
			return convertCurrency(ctx, deps, in.FromCity, in.ToCity), nil
		},
	)
}

func convertCurrency(ctx context.Context, deps Deps, fromCity, toCity string) *model.CurrencyInfo {
	fromCurr := currencyForCity(fromCity)
	toCurr := currencyForCity(toCity)

	if fromCurr == toCurr {
		return &model.CurrencyInfo{
			FromCity: fromCity, ToCity: toCity,
			FromCurrency: fromCurr, ToCurrency: toCurr,
			ExchangeRate: 1.0,
			Message:      fmt.Sprintf("Both cities use %s", fromCurr),
		}
	}

	client := deps.httpClient(deps.Currency.TimeoutSeconds)
	var resp ratesResponse
	if err := getJSON(ctx, client, deps.Currency.BaseURL+"/"+fromCurr, &resp); err != nil {
		logx.Warn().Err(err).Str("from", fromCurr).Str("to", toCurr).Msg("Exchange rate lookup failed")
		return &model.CurrencyInfo{Error: err.Error()}
	}

	rate, ok := resp.Rates[toCurr]
	if !ok {
		rate = 1.0
	}
	return &model.CurrencyInfo{
		FromCity: fromCity, ToCity: toCity,
		FromCurrency: fromCurr, ToCurrency: toCurr,
		ExchangeRate: math.Round(rate*10000) / 10000,
		Message:      fmt.Sprintf("1 %s = %.4f %s", fromCurr, rate, toCurr),
	}
}
