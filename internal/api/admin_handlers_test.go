package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"movextransfer/internal/auth"
	"movextransfer/internal/db"
	"movextransfer/internal/logger"
	"movextransfer/internal/pricing"
	"movextransfer/internal/repository"
	"movextransfer/internal/schedule"
	"movextransfer/internal/service"
)

type listStub struct {
	filter repository.ReservationFilter
	store  *stubStore
}

func (l *listStub) ListReservations(_ context.Context, f repository.ReservationFilter) ([]db.Reservation, error) {
	l.filter = f
	return []db.Reservation{{ID: 4, Type: db.ServicePrague, Date: "2026-10-20", Time: "05:00", Status: db.StatusPending}}, nil
}

func (l *listStub) UpdateStatus(ctx context.Context, id int64, from, to db.Status) (*db.Reservation, error) {
	return l.store.UpdateStatus(ctx, id, from, to)
}

func newAdminRouter(t *testing.T, lister *listStub) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("tajneheslo"), bcrypt.MinCost)
	require.NoError(t, err)
	authRepo := repository.NewAdminAuthRepository("owner@movextransfer.cz", string(hash))

	if lister.store == nil {
		lister.store = &stubStore{}
	}
	bookings := service.NewReservationService(lister.store, failingNotifier{}, service.ReservationConfig{
		Pricing:  pricing.DefaultConfig(),
		Schedule: schedule.DefaultConfig(),
		Location: time.UTC,
	}, logger.NewNop())
	t.Cleanup(bookings.Wait)

	r := mux.NewRouter()
	RegisterRoutes(r, Handlers{
		Users:               NewUserReservationHandler(bookings, logger.NewNop(), false),
		Admin:               NewAdminHandler(service.NewAdminService(lister, lister.store), logger.NewNop(), false),
		AdminAuth:           NewAdminAuthHandler(service.NewAdminAuthService(authRepo, "secret"), logger.NewNop(), false),
		AdminAuthMiddleware: auth.AdminAuthMiddleware("secret"),
	})
	return r
}

func TestAdminLoginAndList(t *testing.T) {
	lister := &listStub{}
	h := newAdminRouter(t, lister)

	rec := do(t, h, http.MethodPost, "/admin/login", LoginRequest{Email: "owner@movextransfer.cz", Password: "tajneheslo"})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations?date=2026-10-20&status=pending,confirmed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	list := httptest.NewRecorder()
	h.ServeHTTP(list, req)

	require.Equal(t, http.StatusOK, list.Code)
	data := decodeBody(t, list)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, data["total"])
	assert.Equal(t, "2026-10-20", lister.filter.Date)
	assert.Equal(t, []string{"pending", "confirmed"}, lister.filter.Statuses)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	h := newAdminRouter(t, &listStub{})

	rec := do(t, h, http.MethodPost, "/admin/login", LoginRequest{Email: "owner@movextransfer.cz", Password: "nope"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgUnauthorized, decodeBody(t, rec)["error"])
}

func TestAdminListNeedsToken(t *testing.T) {
	h := newAdminRouter(t, &listStub{})

	rec := do(t, h, http.MethodGet, "/admin/reservations", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminListRejectsUnknownStatus(t *testing.T) {
	h := newAdminRouter(t, &listStub{})

	rec := do(t, h, http.MethodPost, "/admin/login", LoginRequest{Email: "owner@movextransfer.cz", Password: "tajneheslo"})
	token, _ := decodeBody(t, rec)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/admin/reservations?status=finished", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	list := httptest.NewRecorder()
	h.ServeHTTP(list, req)
	assert.Equal(t, http.StatusBadRequest, list.Code)
	assert.True(t, strings.Contains(list.Body.String(), "finished"))
}

func adminToken(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/admin/login", LoginRequest{Email: "owner@movextransfer.cz", Password: "tajneheslo"})
	require.Equal(t, http.StatusOK, rec.Code)
	token, _ := decodeBody(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func patchStatus(h http.Handler, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAdminUpdateStatus(t *testing.T) {
	store := &stubStore{rows: []db.Reservation{
		{ID: 1, Type: db.ServiceBrno, Date: "2026-10-20", Time: "08:00", Status: db.StatusPending},
		{ID: 2, Type: db.ServiceBrno, Date: "2026-10-21", Time: "08:00", Status: db.StatusCancelled},
	}}
	h := newAdminRouter(t, &listStub{store: store})
	token := adminToken(t, h)

	assert.Equal(t, http.StatusUnauthorized, patchStatus(h, "/admin/reservations/1/status", "", `{"status":"confirmed"}`).Code)

	rec := patchStatus(h, "/admin/reservations/1/status", token, `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "confirmed", data["status"])

	rec = patchStatus(h, "/admin/reservations/2/status", token, `{"status":"pending"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, msgTransition, decodeBody(t, rec)["error"])

	assert.Equal(t, http.StatusBadRequest, patchStatus(h, "/admin/reservations/1/status", token, `{"status":"finished"}`).Code)
	assert.Equal(t, http.StatusBadRequest, patchStatus(h, "/admin/reservations/1/status", token, `{`).Code)
	assert.Equal(t, http.StatusBadRequest, patchStatus(h, "/admin/reservations/x/status", token, `{"status":"cancelled"}`).Code)
	assert.Equal(t, http.StatusNotFound, patchStatus(h, "/admin/reservations/9/status", token, `{"status":"cancelled"}`).Code)
}

func TestAdminCancelFreesSlotForNextBooking(t *testing.T) {
	store := &stubStore{}
	h := newAdminRouter(t, &listStub{store: store})
	token := adminToken(t, h)
	date := futureDate()

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/reservations", bookingBody(date, "10:00")).Code)
	require.Equal(t, http.StatusConflict, do(t, h, http.MethodPost, "/api/reservations", bookingBody(date, "10:30")).Code)

	require.Equal(t, http.StatusOK, patchStatus(h, "/admin/reservations/1/status", token, `{"status":"cancelled"}`).Code)

	rec := do(t, h, http.MethodPost, "/api/reservations", bookingBody(date, "10:30"))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, store.writes)
}
