package service

import (
	"context"
	"sync"
	"time"

	"movextransfer/internal/db"
	"movextransfer/internal/repository"
)

// memStore serializes CreateExclusive the way the advisory lock does.
type memStore struct {
	mu        sync.Mutex
	rows      []db.Reservation
	nextID    int64
	createErr error
	creates   int
}

func (s *memStore) CreateExclusive(_ context.Context, res *db.Reservation, check repository.ConflictCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}

	var sameDay []db.Reservation
	for _, r := range s.rows {
		if r.Date == res.Date && r.Status != db.StatusCancelled {
			sameDay = append(sameDay, r)
		}
	}
	if err := check(sameDay); err != nil {
		return err
	}

	s.nextID++
	res.ID = s.nextID
	if res.Status == "" {
		res.Status = db.StatusPending
	}
	res.CreatedAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s.rows = append(s.rows, *res)
	return nil
}

func (s *memStore) GetByID(_ context.Context, id int64) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) ActiveOnDate(_ context.Context, date string) ([]db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Reservation
	for _, r := range s.rows {
		if r.Date == date && r.Status != db.StatusCancelled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) ListReservations(_ context.Context, f repository.ReservationFilter) ([]db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Reservation
	for _, r := range s.rows {
		if f.Date == "" || r.Date == f.Date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id int64, from, to db.Status) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == id && s.rows[i].Status == from {
			s.rows[i].Status = to
			cp := s.rows[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) add(r db.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r.ID = s.nextID
	if r.Status == "" {
		r.Status = db.StatusPending
	}
	s.rows = append(s.rows, r)
}

type fakeNotifier struct {
	mu   sync.Mutex
	got  []db.Reservation
	err  error
	hook func()
}

func (n *fakeNotifier) NotifyNewReservation(_ context.Context, res db.Reservation) error {
	if n.hook != nil {
		n.hook()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.got = append(n.got, res)
	return n.err
}

func (n *fakeNotifier) calls() []db.Reservation {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]db.Reservation(nil), n.got...)
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []EmailMessage
	// failTo makes sends to this address fail.
	failTo string
}

func (f *fakeEmail) Send(_ context.Context, msg EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.ToEmail == f.failTo {
		return ErrNotConfigured
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeEmail) to(addr string) *EmailMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.sent {
		if f.sent[i].ToEmail == addr {
			return &f.sent[i]
		}
	}
	return nil
}

type fakeSMS struct {
	mu     sync.Mutex
	bodies map[string]string
}

func (f *fakeSMS) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	f.bodies[to] = body
	return nil
}

type fakeCheckout struct {
	enabled bool
	got     []CheckoutRequest
	err     error
}

func (f *fakeCheckout) Enabled() bool { return f.enabled }

func (f *fakeCheckout) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	f.got = append(f.got, req)
	if f.err != nil {
		return nil, f.err
	}
	return &CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
}

type fakeDepositStore struct {
	sessions  map[int64]string
	confirmed *db.Reservation
	err       error
}

func (f *fakeDepositStore) SetSession(_ context.Context, id int64, sessionID string) error {
	if f.sessions == nil {
		f.sessions = map[int64]string{}
	}
	f.sessions[id] = sessionID
	return nil
}

func (f *fakeDepositStore) ConfirmBySession(_ context.Context, sessionID string) (*db.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.confirmed, nil
}
