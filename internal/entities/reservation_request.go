package entities

// ReservationRequest is the booking form as submitted by the front end.
// Pointer fields distinguish "missing" from zero.
type ReservationRequest struct {
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	PickupAddress   string   `json:"pickup_address"`
	DropoffAirport  string   `json:"dropoff_airport"`
	PassengersCount int      `json:"passengers_count"`
	FlightNumber    string   `json:"flight_number"`
	LuggageCount    int      `json:"luggage_count"`
	Email           string   `json:"email"`
	Price           *float64 `json:"price"`
	EstimatedKm     *float64 `json:"estimated_km"`
	RoundTrip       bool     `json:"round_trip"`
}

type QuoteRequest struct {
	Type          string   `json:"type"`
	Time          string   `json:"time"`
	PickupAddress string   `json:"pickup_address"`
	EstimatedKm   *float64 `json:"estimated_km"`
	RoundTrip     bool     `json:"round_trip"`
}

type AvailabilityRequest struct {
	Type string `json:"type"`
	Date string `json:"date"`
	Time string `json:"time"`
}
