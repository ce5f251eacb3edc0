package entities

import "movextransfer/internal/db"

type ReservationsList struct {
	Total        int              `json:"total"`
	Date         string           `json:"date,omitempty"`
	Statuses     []string         `json:"statuses,omitempty"`
	Reservations []db.Reservation `json:"reservations"`
}
