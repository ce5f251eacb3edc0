package api

import (
	"encoding/json"
	"net/http"

	apperrors "movextransfer/internal/errors"
	"movextransfer/internal/logger"
	"movextransfer/internal/service"
)

type AdminAuthHandler struct {
	service    service.AdminAuthService
	log        logger.ILogger
	production bool
}

func NewAdminAuthHandler(svc service.AdminAuthService, log logger.ILogger, production bool) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc, log: log, production: production}
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, requestLogger(r, h.log), h.production, apperrors.ErrBadRequest(msgInvalidBody).Wrap(err), msgInvalidBody)
		return
	}

	token, err := h.service.Login(req.Email, req.Password)
	if err != nil {
		log := requestLogger(r, h.log)
		log.Warning("admin login failed", logger.String("email", req.Email))
		respondError(w, log, h.production, err, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}
