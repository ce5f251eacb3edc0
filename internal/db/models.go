package db

import "time"

type ServiceType string

const (
	ServiceKatowice      ServiceType = "katowice"
	ServiceKrakow        ServiceType = "krakow"
	ServiceVienna        ServiceType = "vienna"
	ServicePrague        ServiceType = "prague"
	ServiceBrno          ServiceType = "brno"
	ServicePrivateDriver ServiceType = "private-driver"
)

// ServiceTypes lists every bookable service in display order.
var ServiceTypes = []ServiceType{
	ServiceKatowice,
	ServiceKrakow,
	ServiceVienna,
	ServicePrague,
	ServiceBrno,
	ServicePrivateDriver,
}

func (t ServiceType) Valid() bool {
	for _, st := range ServiceTypes {
		if st == t {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanBecome reports whether an admin may move a reservation from s to next.
// Cancelled is final.
func (s Status) CanBecome(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	}
	return false
}

// Reservation mirrors a row of the reservations table. Date is YYYY-MM-DD and
// Time is HH:MM, both as stored wall-clock values without a zone.
type Reservation struct {
	ID              int64       `json:"id"`
	Type            ServiceType `json:"type"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	PickupAddress   string      `json:"pickup_address"`
	DropoffAirport  string      `json:"dropoff_airport"`
	PassengersCount int         `json:"passengers_count"`
	FlightNumber    *string     `json:"flight_number"`
	LuggageCount    int         `json:"luggage_count"`
	Email           string      `json:"email"`
	Price           int         `json:"price"`
	Status          Status      `json:"status"`
	StripeSessionID *string     `json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
}
