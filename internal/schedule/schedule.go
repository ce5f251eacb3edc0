// Package schedule decides whether a requested pickup collides with the
// reservations already booked for the same day.
package schedule

import (
	"fmt"

	"movextransfer/internal/db"
	"movextransfer/internal/utils"
)

type Config struct {
	// One-way travel estimate per service, minutes.
	TravelTimes       map[db.ServiceType]int
	DefaultTravelTime int
	// Turnaround added after every ride, minutes.
	BufferMinutes int
}

func DefaultConfig() Config {
	return Config{
		TravelTimes: map[db.ServiceType]int{
			db.ServiceKatowice:      60,
			db.ServiceKrakow:        120,
			db.ServiceVienna:        180,
			db.ServicePrague:        240,
			db.ServiceBrno:          120,
			db.ServicePrivateDriver: 120,
		},
		DefaultTravelTime: 120,
		BufferMinutes:     90,
	}
}

// Slot is a half-open interval [Start, End) in minutes since midnight.
type Slot struct {
	Start int
	End   int
}

func (s Slot) Overlaps(o Slot) bool {
	return s.Start < o.End && o.Start < s.End
}

func (c Config) TravelTime(t db.ServiceType) int {
	if minutes, ok := c.TravelTimes[t]; ok {
		return minutes
	}
	return c.DefaultTravelTime
}

// Blocked returns the window a ride of type t starting at clock occupies.
func (c Config) Blocked(t db.ServiceType, clock string) (Slot, error) {
	start, err := utils.ParseClock(clock)
	if err != nil {
		return Slot{}, err
	}
	return Slot{Start: start, End: start + c.TravelTime(t) + c.BufferMinutes}, nil
}

// Conflict returns the first non-cancelled reservation whose blocked window
// overlaps the candidate, or nil. existing must already be limited to the
// candidate's date. Rows with an unreadable time are skipped.
func (c Config) Conflict(t db.ServiceType, clock string, existing []db.Reservation) (*db.Reservation, error) {
	candidate, err := c.Blocked(t, clock)
	if err != nil {
		return nil, fmt.Errorf("candidate slot: %w", err)
	}

	for i := range existing {
		r := &existing[i]
		if r.Status == db.StatusCancelled {
			continue
		}
		slot, err := c.Blocked(r.Type, r.Time)
		if err != nil {
			continue
		}
		if candidate.Overlaps(slot) {
			return r, nil
		}
	}
	return nil, nil
}
