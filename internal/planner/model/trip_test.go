package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRequest() TripRequest {
	return TripRequest{
		FromCity:    "New York",
		ToCity:      "Paris",
		ArrivalDate: "2026-09-10",
		NumDays:     4,
		NumAdults:   2,
		NumKids:     1,
	}
}

func TestTripRequest_Validate(t *testing.T) {
	type input struct {
		mutate func(*TripRequest)
	}

	type expected struct {
		errContains string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "valid request",
			input:    input{mutate: func(r *TripRequest) {}},
			expected: expected{errContains: ""},
		},
		{
			name:     "blank origin",
			input:    input{mutate: func(r *TripRequest) { r.FromCity = "  " }},
			expected: expected{errContains: "from_city"},
		},
		{
			name:     "blank destination",
			input:    input{mutate: func(r *TripRequest) { r.ToCity = "" }},
			expected: expected{errContains: "to_city"},
		},
		{
			name:     "missing arrival date",
			input:    input{mutate: func(r *TripRequest) { r.ArrivalDate = "" }},
			expected: expected{errContains: "arrival_date"},
		},
		{
			name:     "zero days",
			input:    input{mutate: func(r *TripRequest) { r.NumDays = 0 }},
			expected: expected{errContains: "num_days"},
		},
		{
			name:     "too long trip",
			input:    input{mutate: func(r *TripRequest) { r.NumDays = 31 }},
			expected: expected{errContains: "num_days"},
		},
		{
			name:     "thirty days is allowed",
			input:    input{mutate: func(r *TripRequest) { r.NumDays = 30 }},
			expected: expected{errContains: ""},
		},
		{
			name:     "no adults",
			input:    input{mutate: func(r *TripRequest) { r.NumAdults = 0 }},
			expected: expected{errContains: "num_adults"},
		},
		{
			name:     "negative kids",
			input:    input{mutate: func(r *TripRequest) { r.NumKids = -1 }},
			expected: expected{errContains: "num_kids"},
		},
		{
			name:     "zero kids is allowed",
			input:    input{mutate: func(r *TripRequest) { r.NumKids = 0 }},
			expected: expected{errContains: ""},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.input.mutate(&req)

			err := req.Validate()
			if tc.expected.errContains == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.expected.errContains)
		})
	}
}

func TestTripRequest_ApplyDefaults(t *testing.T) {
	req := validRequest()
	req.ApplyDefaults()
	assert.Equal(t, "10:00 AM", req.ArrivalTime)

	req.ArrivalTime = "6:30 PM"
	req.ApplyDefaults()
	assert.Equal(t, "6:30 PM", req.ArrivalTime)
}
