package entities

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Form posts send numbers as strings as often as not. These helpers accept
// either and report ok=false for anything that is not a finite number.

func lenientFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return 0, false
		}
		v = x
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func lenientFloatPtr(v interface{}) *float64 {
	f, ok := lenientFloat(v)
	if !ok {
		return nil
	}
	return &f
}

// lenientInt returns 0 for values that are not whole numbers.
func lenientInt(v interface{}) int {
	f, ok := lenientFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	n, err := cast.ToIntE(f)
	if err != nil {
		return 0
	}
	return n
}

func lenientBool(v interface{}) bool {
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// UnmarshalJSON accepts numbers and booleans either as JSON literals or as
// strings. An unusable price is left nil so validation reports it, and
// unusable counts decode as 0.
func (r *ReservationRequest) UnmarshalJSON(data []byte) error {
	type plain ReservationRequest
	aux := struct {
		*plain
		PassengersCount interface{} `json:"passengers_count"`
		LuggageCount    interface{} `json:"luggage_count"`
		Price           interface{} `json:"price"`
		EstimatedKm     interface{} `json:"estimated_km"`
		RoundTrip       interface{} `json:"round_trip"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.PassengersCount = lenientInt(aux.PassengersCount)
	r.LuggageCount = lenientInt(aux.LuggageCount)
	r.Price = lenientFloatPtr(aux.Price)
	r.EstimatedKm = lenientFloatPtr(aux.EstimatedKm)
	r.RoundTrip = lenientBool(aux.RoundTrip)
	return nil
}

func (q *QuoteRequest) UnmarshalJSON(data []byte) error {
	type plain QuoteRequest
	aux := struct {
		*plain
		EstimatedKm interface{} `json:"estimated_km"`
		RoundTrip   interface{} `json:"round_trip"`
	}{plain: (*plain)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	q.EstimatedKm = lenientFloatPtr(aux.EstimatedKm)
	q.RoundTrip = lenientBool(aux.RoundTrip)
	return nil
}
