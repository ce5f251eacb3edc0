package api

import (
	"errors"
	"net/http"

	apperrors "movextransfer/internal/errors"
	"movextransfer/internal/logger"
	"movextransfer/internal/repository"
	"movextransfer/internal/service"
)

const (
	msgOverlap      = "Termín je již obsazený. Vyberte prosím jiný čas."
	msgNotFound     = "Rezervace nebyla nalezena"
	msgInvalidBody  = "Neplatný požadavek"
	msgInvalidID    = "Neplatné ID rezervace"
	msgNotPayable   = "Rezervace již nečeká na zálohu"
	msgUnavailable  = "Platby nejsou momentálně dostupné"
	msgUnauthorized = "Neplatné přihlašovací údaje"
	msgTransition   = "Změna stavu rezervace není povolena"
)

// toHTTPError maps a service error onto the HTTP taxonomy. Anything
// unrecognised becomes a 500 carrying fallback as its message.
func toHTTPError(err error, fallback string) *apperrors.HTTPError {
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return apperrors.NewValidationError(validationErr.Details)
	case errors.Is(err, service.ErrSlotTaken):
		return apperrors.NewConflictError(msgOverlap).Wrap(err)
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFoundError(msgNotFound).Wrap(err)
	case errors.Is(err, service.ErrNotPayable):
		return apperrors.NewHTTPError(http.StatusConflict, msgNotPayable).Wrap(err)
	case errors.Is(err, service.ErrInvalidTransition):
		return apperrors.NewHTTPError(http.StatusConflict, msgTransition).Wrap(err)
	case errors.Is(err, service.ErrNotConfigured):
		return apperrors.ErrUnavailable(msgUnavailable).Wrap(err)
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperrors.ErrUnauthorized(msgUnauthorized).Wrap(err)
	}
	return apperrors.NewInternalError(fallback, err)
}

// respondError writes err in the error envelope. The cause of a 500 is only
// exposed outside production.
func respondError(w http.ResponseWriter, log logger.ILogger, production bool, err error, fallback string) {
	httpErr := toHTTPError(err, fallback)

	body := ErrorResponse{
		Success: false,
		Error:   httpErr.Message,
		Code:    httpErr.ErrCode,
	}
	if len(httpErr.Details) > 0 {
		body.Details = httpErr.Details
	}

	if httpErr.Code >= http.StatusInternalServerError {
		log.Error(fallback, logger.Error(err))
		if !production && httpErr.Code == http.StatusInternalServerError {
			body.Details = err.Error()
		}
	} else {
		log.Debug("request rejected", logger.Int("status", httpErr.Code), logger.Error(err))
	}

	writeJSON(w, httpErr.Code, body)
}
