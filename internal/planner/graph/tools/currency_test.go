package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wayplan-core/server/internal/planner/model"
)

func TestCurrencyForCity(t *testing.T) {
	type input struct {
		city string
	}

	type expected struct {
		currency string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{name: "known US city", input: input{city: "New York"}, expected: expected{currency: "USD"}},
		{name: "known Indian city", input: input{city: "Mumbai"}, expected: expected{currency: "INR"}},
		{name: "known UK city", input: input{city: "London"}, expected: expected{currency: "GBP"}},
		{name: "case insensitive lookup", input: input{city: "PARIS"}, expected: expected{currency: "EUR"}},
		{name: "surrounding whitespace ignored", input: input{city: "  tokyo  "}, expected: expected{currency: "JPY"}},
		{name: "indian name pattern", input: input{city: "Ramnagar"}, expected: expected{currency: "INR"}},
		{name: "us name pattern", input: input{city: "Smithville"}, expected: expected{currency: "USD"}},
		{name: "unknown city defaults to USD", input: input{city: "Atlantis"}, expected: expected{currency: "USD"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected.currency, currencyForCity(tc.input.city))
		})
	}
}

func TestConvertCurrency_SameCurrency(t *testing.T) {
	// No HTTP call is made when both cities share a currency.
	info := convertCurrency(context.Background(), Deps{}, "New York", "Chicago")

	require.Empty(t, info.Error)
	assert.Equal(t, "USD", info.FromCurrency)
	assert.Equal(t, "USD", info.ToCurrency)
	assert.Equal(t, 1.0, info.ExchangeRate)
	assert.Equal(t, "Both cities use USD", info.Message)
}

func TestConvertCurrency_FetchesRate(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates":{"INR":83.123456,"EUR":0.92}}`))
	}))
	defer ts.Close()

	deps := Deps{Currency: model.CurrencyConfig{BaseURL: ts.URL, TimeoutSeconds: 5}}
	info := convertCurrency(context.Background(), deps, "New York", "Mumbai")

	require.Empty(t, info.Error)
	assert.Equal(t, "USD", info.FromCurrency)
	assert.Equal(t, "INR", info.ToCurrency)
	assert.Equal(t, 83.1235, info.ExchangeRate)
	assert.Equal(t, "1 USD = 83.1235 INR", info.Message)
}

func TestConvertCurrency_MissingRateDefaultsToOne(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.92}}`))
	}))
	defer ts.Close()

	deps := Deps{Currency: model.CurrencyConfig{BaseURL: ts.URL, TimeoutSeconds: 5}}
	info := convertCurrency(context.Background(), deps, "New York", "Mumbai")

	require.Empty(t, info.Error)
	assert.Equal(t, 1.0, info.ExchangeRate)
}

func TestConvertCurrency_UpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	deps := Deps{Currency: model.CurrencyConfig{BaseURL: ts.URL, TimeoutSeconds: 5}}
	info := convertCurrency(context.Background(), deps, "New York", "Mumbai")

	assert.NotEmpty(t, info.Error)
	assert.Empty(t, info.FromCurrency)
}
