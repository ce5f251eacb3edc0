package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"movextransfer/internal/db"
)

var ErrNotFound = errors.New("reservation not found")

// ConflictCheck inspects the non-cancelled reservations of a date and returns
// a non-nil error to abort the insert.
type ConflictCheck func(existing []db.Reservation) error

const reservationColumns = `
	id, type, to_char(date, 'YYYY-MM-DD'), to_char(time, 'HH24:MI'),
	pickup_address, dropoff_airport, passengers_count, flight_number,
	luggage_count, email, price, status, stripe_session_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(
		&res.ID, &res.Type, &res.Date, &res.Time,
		&res.PickupAddress, &res.DropoffAirport, &res.PassengersCount, &res.FlightNumber,
		&res.LuggageCount, &res.Email, &res.Price, &res.Status, &res.StripeSessionID, &res.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func scanReservations(rows *sql.Rows) ([]db.Reservation, error) {
	defer rows.Close()

	var out []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return out, nil
}

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

// CreateExclusive inserts res unless check rejects the day's existing
// reservations. The check and the insert run in one transaction holding an
// advisory lock on the date, so concurrent bookings for a day are serialized.
// On success res.ID, res.Status and res.CreatedAt are filled in.
func (r *ReservationRepository) CreateExclusive(ctx context.Context, res *db.Reservation, check ConflictCheck) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1::text))`, res.Date); err != nil {
		return fmt.Errorf("error locking date %s: %w", res.Date, err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT `+reservationColumns+`
		FROM reservations
		WHERE date = $1::date AND status <> 'cancelled'
		ORDER BY time`, res.Date)
	if err != nil {
		return fmt.Errorf("error querying reservations for %s: %w", res.Date, err)
	}
	existing, err := scanReservations(rows)
	if err != nil {
		return err
	}

	if err := check(existing); err != nil {
		return err
	}

	if res.Status == "" {
		res.Status = db.StatusPending
	}
	query := `
		INSERT INTO reservations
		(type, date, time, pickup_address, dropoff_airport, passengers_count, flight_number, luggage_count, email, price, status)
		VALUES ($1, $2::date, $3::time, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`
	err = tx.QueryRowContext(ctx, query,
		string(res.Type),
		res.Date,
		res.Time,
		res.PickupAddress,
		res.DropoffAirport,
		res.PassengersCount,
		res.FlightNumber,
		res.LuggageCount,
		res.Email,
		res.Price,
		string(res.Status),
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("error querying reservation %d: %w", id, err)
	}
	return res, nil
}

// ActiveOnDate lists the non-cancelled reservations of a YYYY-MM-DD date,
// ordered by pickup time. It takes no lock.
func (r *ReservationRepository) ActiveOnDate(ctx context.Context, date string) ([]db.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+reservationColumns+`
		FROM reservations
		WHERE date = $1::date AND status <> 'cancelled'
		ORDER BY time`, date)
	if err != nil {
		return nil, fmt.Errorf("error querying reservations for %s: %w", date, err)
	}
	return scanReservations(rows)
}
