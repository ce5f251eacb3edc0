package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"movextransfer/internal/db"
)

type StripeRepository struct {
	DB *sql.DB
}

func NewStripeRepository(db *sql.DB) *StripeRepository {
	return &StripeRepository{DB: db}
}

// SetSession records the checkout session opened for a reservation's deposit.
func (r *StripeRepository) SetSession(ctx context.Context, reservationID int64, sessionID string) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET stripe_session_id = $2 WHERE id = $1`,
		reservationID, sessionID,
	)
	if err != nil {
		return fmt.Errorf("error saving stripe session for reservation %d: %w", reservationID, err)
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("reservation %d: %w", reservationID, ErrNotFound)
	}
	return nil
}

// ConfirmBySession moves the pending reservation paid through sessionID to
// confirmed. A session that matches no pending reservation yields ErrNotFound.
func (r *StripeRepository) ConfirmBySession(ctx context.Context, sessionID string) (*db.Reservation, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE reservations
		SET status = 'confirmed'
		WHERE stripe_session_id = $1 AND status = 'pending'
		RETURNING `+reservationColumns, sessionID)
	res, err := scanReservation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pending reservation for session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("error confirming reservation for session %s: %w", sessionID, err)
	}
	return res, nil
}
