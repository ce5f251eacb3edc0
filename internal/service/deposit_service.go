package service

import (
	"context"
	"errors"
	"fmt"

	"movextransfer/internal/db"
	"movextransfer/internal/entities"
	"movextransfer/internal/logger"
	"movextransfer/internal/pricing"
)

var ErrNotPayable = errors.New("reservation is not awaiting a deposit")

type ReservationReader interface {
	GetByID(ctx context.Context, id int64) (*db.Reservation, error)
}

type DepositStore interface {
	SetSession(ctx context.Context, reservationID int64, sessionID string) error
	ConfirmBySession(ctx context.Context, sessionID string) (*db.Reservation, error)
}

// DepositService takes the advance payment on a pending reservation and
// confirms it once the payment provider reports success.
type DepositService struct {
	reservations ReservationReader
	store        DepositStore
	checkout     CheckoutProvider
	pricing      pricing.Config
	log          logger.ILogger
}

func NewDepositService(reservations ReservationReader, store DepositStore, checkout CheckoutProvider, pricingCfg pricing.Config, log logger.ILogger) *DepositService {
	return &DepositService{
		reservations: reservations,
		store:        store,
		checkout:     checkout,
		pricing:      pricingCfg,
		log:          log,
	}
}

func (s *DepositService) StartDeposit(ctx context.Context, reservationID int64) (*entities.DepositSessionResponse, error) {
	if !s.checkout.Enabled() {
		return nil, fmt.Errorf("payments: %w", ErrNotConfigured)
	}

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if res.Status != db.StatusPending {
		return nil, fmt.Errorf("reservation %d is %s: %w", res.ID, res.Status, ErrNotPayable)
	}

	amount := s.pricing.Deposit(res.Price)
	sess, err := s.checkout.CreateCheckoutSession(ctx, CheckoutRequest{
		ReservationID: res.ID,
		Amount:        amount,
		Currency:      currencyCZK,
		Description:   fmt.Sprintf("Záloha - rezervace #%d (%s %s)", res.ID, res.Date, res.Time),
		CustomerEmail: res.Email,
	})
	if err != nil {
		return nil, err
	}

	if err := s.store.SetSession(ctx, res.ID, sess.ID); err != nil {
		return nil, err
	}

	s.log.Info("deposit checkout opened",
		logger.Int64("reservation_id", res.ID),
		logger.String("session_id", sess.ID),
		logger.Int("amount", amount),
	)
	return &entities.DepositSessionResponse{
		ReservationID: res.ID,
		SessionID:     sess.ID,
		URL:           sess.URL,
		Amount:        amount,
		Currency:      currencyCZK,
	}, nil
}

// ConfirmDeposit marks the reservation paid through sessionID as confirmed.
func (s *DepositService) ConfirmDeposit(ctx context.Context, sessionID string) (*db.Reservation, error) {
	res, err := s.store.ConfirmBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.log.Info("reservation confirmed by deposit",
		logger.Int64("reservation_id", res.ID),
		logger.String("session_id", sessionID),
	)
	return res, nil
}
