package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"movextransfer/internal/db"
	"movextransfer/internal/entities"
	"movextransfer/internal/logger"
	"movextransfer/internal/pricing"
	"movextransfer/internal/repository"
	"movextransfer/internal/schedule"
	"movextransfer/internal/utils"
	"movextransfer/internal/validator"
)

const currencyCZK = "CZK"

var ErrSlotTaken = errors.New("slot already taken")

// ValidationError carries every violated rule of a request.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}

type ReservationStore interface {
	CreateExclusive(ctx context.Context, res *db.Reservation, check repository.ConflictCheck) error
	GetByID(ctx context.Context, id int64) (*db.Reservation, error)
	ActiveOnDate(ctx context.Context, date string) ([]db.Reservation, error)
}

type Notifier interface {
	NotifyNewReservation(ctx context.Context, res db.Reservation) error
}

type ReservationConfig struct {
	Pricing  pricing.Config
	Schedule schedule.Config
	Location *time.Location
	// NotifyTimeout bounds one background notification round.
	NotifyTimeout time.Duration
}

type ReservationService struct {
	store    ReservationStore
	notifier Notifier
	pricing  pricing.Config
	schedule schedule.Config
	loc      *time.Location
	timeout  time.Duration
	log      logger.ILogger
	now      func() time.Time

	inflight sync.WaitGroup
}

func NewReservationService(store ReservationStore, notifier Notifier, cfg ReservationConfig, log logger.ILogger) *ReservationService {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	timeout := cfg.NotifyTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReservationService{
		store:    store,
		notifier: notifier,
		pricing:  cfg.Pricing,
		schedule: cfg.Schedule,
		loc:      loc,
		timeout:  timeout,
		log:      log,
		now:      time.Now,
	}
}

// CreateReservation validates req, prices it, and inserts it as pending unless
// its slot collides with another booking that day. Notifications go out in the
// background and never affect the result.
func (s *ReservationService) CreateReservation(ctx context.Context, req entities.ReservationRequest) (*db.Reservation, error) {
	if details := validator.ValidateReservation(req, s.now().In(s.loc)); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	minutes, _ := utils.ParseClock(req.Time)
	res := &db.Reservation{
		Type:            db.ServiceType(strings.TrimSpace(req.Type)),
		Date:            strings.TrimSpace(req.Date),
		Time:            utils.FormatClock(minutes),
		PickupAddress:   strings.TrimSpace(req.PickupAddress),
		DropoffAirport:  strings.TrimSpace(req.DropoffAirport),
		PassengersCount: req.PassengersCount,
		LuggageCount:    req.LuggageCount,
		Email:           strings.TrimSpace(req.Email),
		Status:          db.StatusPending,
	}
	if res.LuggageCount < 0 {
		res.LuggageCount = 0
	}
	if fn := strings.TrimSpace(req.FlightNumber); fn != "" {
		res.FlightNumber = &fn
	}

	quote := s.pricing.Calculate(pricing.Input{
		Type:          res.Type,
		EstimatedKm:   deref(req.EstimatedKm),
		RoundTrip:     req.RoundTrip,
		PickupTime:    res.Time,
		PickupAddress: res.PickupAddress,
	})
	if client := int(math.Round(*req.Price)); client != quote.Total {
		s.log.Warning("client price differs from computed price",
			logger.String("type", string(res.Type)),
			logger.Int("client_price", client),
			logger.Int("computed_price", quote.Total),
		)
	}
	res.Price = quote.Total

	err := s.store.CreateExclusive(ctx, res, func(existing []db.Reservation) error {
		conflict, err := s.schedule.Conflict(res.Type, res.Time, existing)
		if err != nil {
			return err
		}
		if conflict != nil {
			return fmt.Errorf("%w: %s at %s collides with reservation %d", ErrSlotTaken, res.Date, res.Time, conflict.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("reservation created",
		logger.Int64("reservation_id", res.ID),
		logger.String("type", string(res.Type)),
		logger.String("date", res.Date),
		logger.String("time", res.Time),
		logger.Int("price", res.Price),
	)

	s.dispatchNotifications(*res)
	return res, nil
}

func (s *ReservationService) dispatchNotifications(res db.Reservation) {
	if s.notifier == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("notification dispatch panicked", logger.Int64("reservation_id", res.ID), logger.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.notifier.NotifyNewReservation(ctx, res); err != nil {
			s.log.Warning("notifications incomplete, reservation kept",
				logger.Int64("reservation_id", res.ID), logger.Error(err))
		}
	}()
}

// Wait blocks until every background notification has finished.
func (s *ReservationService) Wait() {
	s.inflight.Wait()
}

func (s *ReservationService) GetReservation(ctx context.Context, id int64) (*db.Reservation, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ReservationService) Quote(req entities.QuoteRequest) (*entities.QuoteResponse, error) {
	if details := validator.ValidateQuote(req); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}
	b := s.pricing.Calculate(pricing.Input{
		Type:          db.ServiceType(strings.TrimSpace(req.Type)),
		EstimatedKm:   deref(req.EstimatedKm),
		RoundTrip:     req.RoundTrip,
		PickupTime:    req.Time,
		PickupAddress: req.PickupAddress,
	})
	return &entities.QuoteResponse{Type: strings.TrimSpace(req.Type), Breakdown: b, Currency: currencyCZK}, nil
}

// CheckAvailability tests a slot against the day's bookings without locking.
// A later CreateReservation may still be refused.
func (s *ReservationService) CheckAvailability(ctx context.Context, req entities.AvailabilityRequest) (*entities.AvailabilityResponse, error) {
	if details := validator.ValidateAvailability(req, s.now().In(s.loc)); len(details) > 0 {
		return nil, &ValidationError{Details: details}
	}

	t := db.ServiceType(strings.TrimSpace(req.Type))
	date := strings.TrimSpace(req.Date)
	slot, err := s.schedule.Blocked(t, req.Time)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ActiveOnDate(ctx, date)
	if err != nil {
		return nil, err
	}
	conflict, err := s.schedule.Conflict(t, req.Time, existing)
	if err != nil {
		return nil, err
	}

	resp := &entities.AvailabilityResponse{
		Available:    conflict == nil,
		Date:         date,
		Time:         utils.FormatClock(slot.Start),
		BlockedUntil: utils.FormatClock(slot.End),
	}
	if conflict != nil {
		resp.ConflictsWith = conflict.Time
	}
	return resp, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
