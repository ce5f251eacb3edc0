package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movextransfer/internal/db"
	"movextransfer/internal/logger"
	"movextransfer/internal/pricing"
	"movextransfer/internal/repository"
	"movextransfer/internal/schedule"
	"movextransfer/internal/service"
	"movextransfer/internal/validator"
)

type stubStore struct {
	mu     sync.Mutex
	rows   []db.Reservation
	err    error
	writes int
}

func (s *stubStore) CreateExclusive(_ context.Context, res *db.Reservation, check repository.ConflictCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	var sameDay []db.Reservation
	for _, r := range s.rows {
		if r.Date == res.Date {
			sameDay = append(sameDay, r)
		}
	}
	if err := check(sameDay); err != nil {
		return err
	}
	s.writes++
	res.ID = int64(len(s.rows) + 1)
	res.CreatedAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s.rows = append(s.rows, *res)
	return nil
}

func (s *stubStore) GetByID(_ context.Context, id int64) (*db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.rows {
		if r.ID == id {
			cp := r
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubStore) ActiveOnDate(_ context.Context, date string) ([]db.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Reservation
	for _, r := range s.rows {
		if r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) UpdateStatus(_ context.Context, id int64, from, to db.Status) (*db.Reservation, error) {
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

type failingNotifier struct{}

func (failingNotifier) NotifyNewReservation(context.Context, db.Reservation) error {
	return errors.New("smtp unreachable")
}

func newTestRouter(t *testing.T, store *stubStore, production bool) (http.Handler, *service.ReservationService) {
	t.Helper()
	svc := service.NewReservationService(store, failingNotifier{}, service.ReservationConfig{
		Pricing:  pricing.DefaultConfig(),
		Schedule: schedule.DefaultConfig(),
		Location: time.UTC,
	}, logger.NewNop())
	t.Cleanup(svc.Wait)

	r := mux.NewRouter()
	r.Use(RequestLogging(logger.NewNop()))
	RegisterRoutes(r, Handlers{Users: NewUserReservationHandler(svc, logger.NewNop(), production)})
	return r, svc
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func bookingBody(date, clock string) map[string]interface{} {
	return map[string]interface{}{
		"type":             "katowice",
		"date":             date,
		"time":             clock,
		"pickup_address":   "Ostrava Centrum",
		"dropoff_airport":  "Katowice Airport",
		"passengers_count": 2,
		"flight_number":    "FR1234",
		"email":            "jan.novak@example.cz",
		"price":            1900,
	}
}

func futureDate() string {
	return time.Now().UTC().AddDate(0, 0, 3).Format("2006-01-02")
}

func TestCreateReservationReturns201(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestRouter(t, store, false)

	rec := do(t, h, http.MethodPost, "/api/reservations", bookingBody(futureDate(), "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, msgCreated, body["message"])
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["id"])
	assert.EqualValues(t, 1900, data["price"])
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "FR1234", data["flight_number"])
}

func TestCreateReservationValidation400(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestRouter(t, store, false)

	body := bookingBody(futureDate(), "")
	body["passengers_count"] = 5
	rec := do(t, h, http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	out := decodeBody(t, rec)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Validation failed", out["error"])
	assert.Len(t, out["details"], 2)
	assert.Zero(t, store.writes)
}

func TestCreateReservationMalformedJSON(t *testing.T) {
	h, _ := newTestRouter(t, &stubStore{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReservationUnusableKmStillBooks(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestRouter(t, store, false)

	body := bookingBody(futureDate(), "10:00")
	body["estimated_km"] = "abc"
	rec := do(t, h, http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 1900, data["price"])
	assert.Equal(t, 1, store.writes)
}

func TestCreateReservationStringNumbersReachValidation(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestRouter(t, store, false)

	body := bookingBody(futureDate(), "10:00")
	body["passengers_count"] = "x"
	body["price"] = "1900"
	delete(body, "email")
	rec := do(t, h, http.MethodPost, "/api/reservations", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	out := decodeBody(t, rec)
	assert.Equal(t, "Validation failed", out["error"])
	assert.ElementsMatch(t, []interface{}{validator.MsgPassengersInvalid, validator.MsgEmailInvalid}, out["details"])
	assert.Zero(t, store.writes)

	body = bookingBody(futureDate(), "10:00")
	body["passengers_count"] = "3"
	body["price"] = "abc"
	out = decodeBody(t, do(t, h, http.MethodPost, "/api/reservations", body))
	assert.Equal(t, []interface{}{validator.MsgPriceRequired}, out["details"])
}

func TestCreateReservationOverlap409(t *testing.T) {
	store := &stubStore{}
	h, _ := newTestRouter(t, store, false)
	date := futureDate()

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/reservations", bookingBody(date, "10:00")).Code)

	rec := do(t, h, http.MethodPost, "/api/reservations", bookingBody(date, "11:00"))
	require.Equal(t, http.StatusConflict, rec.Code)
	out := decodeBody(t, rec)
	assert.Equal(t, "OVERLAP", out["code"])
	assert.Equal(t, msgOverlap, out["error"])
	assert.Equal(t, 1, store.writes)
}

func TestCreateReservationStoreFailure500(t *testing.T) {
	store := &stubStore{err: errors.New("connection reset")}

	h, _ := newTestRouter(t, store, false)
	out := decodeBody(t, do(t, h, http.MethodPost, "/api/reservations", bookingBody(futureDate(), "10:00")))
	assert.Equal(t, msgCreateError, out["error"])
	assert.Contains(t, out["details"], "connection reset")

	h, _ = newTestRouter(t, store, true)
	rec := do(t, h, http.MethodPost, "/api/reservations", bookingBody(futureDate(), "10:00"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	_, hasDetails := decodeBody(t, rec)["details"]
	assert.False(t, hasDetails)
}

func TestGetReservation(t *testing.T) {
	store := &stubStore{rows: []db.Reservation{{ID: 1, Type: db.ServiceBrno, Date: "2026-10-20", Time: "08:00", Status: db.StatusPending}}}
	h, _ := newTestRouter(t, store, false)

	rec := do(t, h, http.MethodGet, "/api/reservations/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "brno", data["type"])

	rec = do(t, h, http.MethodGet, "/api/reservations/2", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, decodeBody(t, rec)["error"])

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/reservations/abc", nil).Code)
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, &stubStore{}, false)

	rec := do(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	assert.Equal(t, "ok", out["status"])
	ts := out["timestamp"].(string)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`, ts)
}

func TestQuoteEndpoint(t *testing.T) {
	h, _ := newTestRouter(t, &stubStore{}, false)

	rec := do(t, h, http.MethodPost, "/api/quote", map[string]interface{}{
		"type":           "private-driver",
		"estimated_km":   40,
		"round_trip":     true,
		"time":           "23:00",
		"pickup_address": "Ostrava Centrum",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 2000, data["base"])
	assert.EqualValues(t, 600, data["night_surcharge"])
	assert.EqualValues(t, 2600, data["total"])
	assert.EqualValues(t, 1300, data["deposit"])

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/api/quote", map[string]string{"type": "berlin"}).Code)
}

func TestQuoteEndpointAcceptsStringKm(t *testing.T) {
	h, _ := newTestRouter(t, &stubStore{}, false)

	rec := do(t, h, http.MethodPost, "/api/quote", map[string]interface{}{
		"type":           "private-driver",
		"estimated_km":   "40",
		"time":           "10:00",
		"pickup_address": "Ostrava Centrum",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 1000, data["total"])

	rec = do(t, h, http.MethodPost, "/api/quote", map[string]interface{}{
		"type":           "private-driver",
		"estimated_km":   "abc",
		"time":           "10:00",
		"pickup_address": "Ostrava Centrum",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	data = decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 800, data["total"])
}

func TestAvailabilityEndpoint(t *testing.T) {
	date := futureDate()
	store := &stubStore{rows: []db.Reservation{{ID: 1, Type: db.ServiceKatowice, Date: date, Time: "10:00", Status: db.StatusPending}}}
	h, _ := newTestRouter(t, store, false)

	rec := do(t, h, http.MethodPost, "/api/availability", map[string]string{"type": "brno", "date": date, "time": "12:00"})
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, false, data["available"])
	assert.Equal(t, "10:00", data["conflicts_with"])
}

func TestRequestIDIsPropagated(t *testing.T) {
	h, _ := newTestRouter(t, &stubStore{}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSAllowsUnlistedOrigins(t *testing.T) {
	h, _ := newTestRouter(t, &stubStore{}, false)
	h = CORS([]string{"http://localhost:5500"}, logger.NewNop())(h)

	for _, origin := range []string{"http://localhost:5500", "https://elsewhere.example"} {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
