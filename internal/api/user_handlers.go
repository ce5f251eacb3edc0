package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"movextransfer/internal/entities"
	"movextransfer/internal/logger"
	"movextransfer/internal/service"
)

const (
	msgCreated     = "Rezervace byla úspěšně vytvořena"
	msgCreateError = "Při vytváření rezervace došlo k chybě. Zkuste to prosím znovu."
	msgLoadError   = "Chyba při načítání rezervace"
	msgQuoteError  = "Chyba při výpočtu ceny"
	msgCheckError  = "Chyba při ověřování dostupnosti"
)

// maxBodyBytes caps public JSON bodies.
const maxBodyBytes = 1 << 20

// timestampLayout is RFC 3339 with milliseconds, as browsers print dates.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type UserReservationHandler struct {
	Service    *service.ReservationService
	log        logger.ILogger
	production bool
}

func NewUserReservationHandler(svc *service.ReservationService, log logger.ILogger, production bool) *UserReservationHandler {
	return &UserReservationHandler{Service: svc, log: log, production: production}
}

func (h *UserReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req entities.ReservationRequest
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.Service.CreateReservation(r.Context(), req)
	if err != nil {
		respondError(w, requestLogger(r, h.log), h.production, err, msgCreateError)
		return
	}

	writeJSON(w, http.StatusCreated, SuccessResponse{
		Success: true,
		Message: msgCreated,
		Data:    res,
	})
}

func (h *UserReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Success: false, Error: msgNotFound})
		return
	}

	res, err := h.Service.GetReservation(r.Context(), id)
	if err != nil {
		respondError(w, requestLogger(r, h.log), h.production, err, msgLoadError)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: res})
}

func (h *UserReservationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req entities.QuoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	quote, err := h.Service.Quote(req)
	if err != nil {
		respondError(w, requestLogger(r, h.log), h.production, err, msgQuoteError)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: quote})
}

func (h *UserReservationHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req entities.AvailabilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	availability, err := h.Service.CheckAvailability(r.Context(), req)
	if err != nil {
		respondError(w, requestLogger(r, h.log), h.production, err, msgCheckError)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: availability})
}

func (h *UserReservationHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(timestampLayout),
	})
}

func (h *UserReservationHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		requestLogger(r, h.log).Debug("invalid request body", logger.Error(err))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   msgInvalidBody,
			Details: []string{err.Error()},
		})
		return false
	}
	return true
}
