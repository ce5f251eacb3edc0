package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"

	"movextransfer/internal/db"
)

type ReservationFilter struct {
	Date     string
	Statuses []string
	Limit    int
}

type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) ListReservations(ctx context.Context, f ReservationFilter) ([]db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if f.Date != "" {
		query += " AND date = $" + strconv.Itoa(idx) + "::date"
		args = append(args, f.Date)
		idx++
	}
	if len(f.Statuses) > 0 {
		query += " AND status = ANY($" + strconv.Itoa(idx) + ")"
		args = append(args, pq.Array(f.Statuses))
		idx++
	}
	query += " ORDER BY date, time"
	if f.Limit > 0 {
		query += " LIMIT $" + strconv.Itoa(idx)
		args = append(args, f.Limit)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	return scanReservations(rows)
}

// UpdateStatus moves reservation id from status from to status to. A row that
// is missing or no longer in from yields ErrNotFound.
func (r *AdminRepository) UpdateStatus(ctx context.Context, id int64, from, to db.Status) (*db.Reservation, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE reservations
		SET status = $3
		WHERE id = $1 AND status = $2
		RETURNING `+reservationColumns, id, string(from), string(to))
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s reservation %d: %w", from, id, ErrNotFound)
		}
		return nil, fmt.Errorf("error updating status of reservation %d: %w", id, err)
	}
	return res, nil
}
