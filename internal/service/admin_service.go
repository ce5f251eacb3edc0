package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movextransfer/internal/db"
	"movextransfer/internal/entities"
	"movextransfer/internal/repository"
	"movextransfer/internal/utils"
)

var ErrInvalidTransition = errors.New("status change not allowed")

type AdminStore interface {
	ListReservations(ctx context.Context, f repository.ReservationFilter) ([]db.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, from, to db.Status) (*db.Reservation, error)
}

type AdminService struct {
	adminRepo    AdminStore
	reservations ReservationReader
}

func NewAdminService(adminRepo AdminStore, reservations ReservationReader) *AdminService {
	return &AdminService{adminRepo: adminRepo, reservations: reservations}
}

// ListReservations filters by an optional YYYY-MM-DD date and an optional
// comma-separated list of statuses.
func (s *AdminService) ListReservations(ctx context.Context, date, statuses string) (*entities.ReservationsList, error) {
	filter := repository.ReservationFilter{Date: strings.TrimSpace(date)}
	if filter.Date != "" {
		if _, err := utils.ParseDate(filter.Date, time.UTC); err != nil {
			return nil, &ValidationError{Details: []string{fmt.Sprintf("invalid date %q", filter.Date)}}
		}
	}

	var bad []string
	for _, raw := range strings.Split(statuses, ",") {
		st := strings.ToLower(strings.TrimSpace(raw))
		if st == "" {
			continue
		}
		if !db.Status(st).Valid() {
			bad = append(bad, fmt.Sprintf("unknown status %q", st))
			continue
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	if len(bad) > 0 {
		return nil, &ValidationError{Details: bad}
	}

	list, err := s.adminRepo.ListReservations(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []db.Reservation{}
	}
	return &entities.ReservationsList{
		Total:        len(list),
		Date:         filter.Date,
		Statuses:     filter.Statuses,
		Reservations: list,
	}, nil
}

// UpdateStatus confirms or cancels a reservation. A cancelled reservation no
// longer blocks its slot.
func (s *AdminService) UpdateStatus(ctx context.Context, id int64, status string) (*db.Reservation, error) {
	next := db.Status(strings.ToLower(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, &ValidationError{Details: []string{fmt.Sprintf("unknown status %q", status)}}
	}

	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == next {
		return current, nil
	}
	if !current.Status.CanBecome(next) {
		return nil, fmt.Errorf("reservation %d %s -> %s: %w", id, current.Status, next, ErrInvalidTransition)
	}

	updated, err := s.adminRepo.UpdateStatus(ctx, id, current.Status, next)
	if errors.Is(err, repository.ErrNotFound) {
		// The row changed between the read and the update.
		return nil, fmt.Errorf("reservation %d changed concurrently: %w", id, ErrInvalidTransition)
	}
	return updated, err
}
