package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"movextransfer/internal/auth"
	"movextransfer/internal/logger"
	"movextransfer/internal/service"
)

type AdminHandler struct {
	Service    *service.AdminService
	log        logger.ILogger
	production bool
}

func NewAdminHandler(svc *service.AdminService, log logger.ILogger, production bool) *AdminHandler {
	return &AdminHandler{Service: svc, log: log, production: production}
}

func (h *AdminHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.Service.ListReservations(r.Context(), q.Get("date"), q.Get("status"))
	if err != nil {
		respondError(w, requestLogger(r, h.log), h.production, err, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: list})
}

func (h *AdminHandler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.log)

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Error: msgInvalidID})
		return
	}

	var req StatusUpdateRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Error: msgInvalidBody, Details: []string{err.Error()}})
		return
	}

	res, err := h.Service.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, log, h.production, err, "Database error")
		return
	}

	log.Info("reservation status changed",
		logger.Int64("reservation_id", res.ID),
		logger.String("status", string(res.Status)),
		logger.String("admin", auth.AdminEmail(r.Context())),
	)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: res})
}
