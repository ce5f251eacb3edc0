package validator

import (
	"strings"
	"time"

	"movextransfer/internal/db"
	"movextransfer/internal/entities"
	"movextransfer/internal/utils"
)

const (
	MsgTypeRequired      = "Typ služby je povinný"
	MsgTypeUnknown       = "Neznámý typ služby"
	MsgDateRequired      = "Datum je povinné"
	MsgDateInvalid       = "Datum má neplatný formát"
	MsgDateInPast        = "Datum nemůže být v minulosti"
	MsgTimeRequired      = "Čas je povinný"
	MsgTimeInvalid       = "Čas má neplatný formát"
	MsgPickupRequired    = "Místo vyzvednutí je povinné"
	MsgDropoffRequired   = "Cílová destinace je povinná"
	MsgPassengersInvalid = "Počet cestujících musí být 1-3"
	MsgEmailInvalid      = "Platný email je povinný"
	MsgPriceRequired     = "Cena je povinná"
)

const (
	MinPassengers = 1
	MaxPassengers = 3
)

// ValidateReservation checks every rule and returns one message per violated
// rule, in rule order. An empty result means the request is well-formed.
// The date is compared to now at day granularity in now's location.
func ValidateReservation(req entities.ReservationRequest, now time.Time) []string {
	var errs []string

	if msg := checkType(req.Type); msg != "" {
		errs = append(errs, msg)
	}
	if msg := checkDate(req.Date, now); msg != "" {
		errs = append(errs, msg)
	}
	if msg := checkTime(req.Time); msg != "" {
		errs = append(errs, msg)
	}
	if blank(req.PickupAddress) {
		errs = append(errs, MsgPickupRequired)
	}
	if blank(req.DropoffAirport) {
		errs = append(errs, MsgDropoffRequired)
	}
	if req.PassengersCount < MinPassengers || req.PassengersCount > MaxPassengers {
		errs = append(errs, MsgPassengersInvalid)
	}
	if !strings.Contains(req.Email, "@") {
		errs = append(errs, MsgEmailInvalid)
	}
	if req.Price == nil || *req.Price < 0 {
		errs = append(errs, MsgPriceRequired)
	}

	return errs
}

func checkType(t string) string {
	if blank(t) {
		return MsgTypeRequired
	}
	if !db.ServiceType(t).Valid() {
		return MsgTypeUnknown
	}
	return ""
}

func checkDate(date string, now time.Time) string {
	if blank(date) {
		return MsgDateRequired
	}
	d, err := utils.ParseDate(date, now.Location())
	if err != nil {
		return MsgDateInvalid
	}
	if d.Before(utils.StartOfDay(now)) {
		return MsgDateInPast
	}
	return ""
}

func checkTime(clock string) string {
	if blank(clock) {
		return MsgTimeRequired
	}
	if _, err := utils.ParseClock(clock); err != nil {
		return MsgTimeInvalid
	}
	return ""
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidateQuote checks the fields a price quote depends on. Time is optional;
// when given it must be well-formed.
func ValidateQuote(req entities.QuoteRequest) []string {
	var errs []string
	if msg := checkType(req.Type); msg != "" {
		errs = append(errs, msg)
	}
	if !blank(req.Time) {
		if msg := checkTime(req.Time); msg != "" {
			errs = append(errs, msg)
		}
	}
	return errs
}

// ValidateAvailability checks the fields needed to test a slot.
func ValidateAvailability(req entities.AvailabilityRequest, now time.Time) []string {
	var errs []string
	if msg := checkType(req.Type); msg != "" {
		errs = append(errs, msg)
	}
	if msg := checkDate(req.Date, now); msg != "" {
		errs = append(errs, msg)
	}
	if msg := checkTime(req.Time); msg != "" {
		errs = append(errs, msg)
	}
	return errs
}
