package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"

	"movextransfer/internal/logger"
	"movextransfer/internal/repository"
	"movextransfer/internal/service"
)

const eventCheckoutCompleted = "checkout.session.completed"

type StripeWebhookHandler struct {
	stripe     *service.StripeService
	deposits   *service.DepositService
	log        logger.ILogger
	production bool
}

func NewStripeWebhookHandler(stripeService *service.StripeService, deposits *service.DepositService, log logger.ILogger, production bool) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		stripe:     stripeService,
		deposits:   deposits,
		log:        log,
		production: production,
	}
}

// StartDeposit opens a checkout session for a pending reservation's deposit.
func (h *StripeWebhookHandler) StartDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Success: false, Error: msgInvalidID})
		return
	}

	resp, err := h.deposits.StartDeposit(r.Context(), id)
	if err != nil {
		respondError(w, requestLogger(r, h.log), h.production, err, "Platbu se nepodařilo zahájit")
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: resp})
}

func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r, h.log)

	r.Body = http.MaxBytesReader(w, r.Body, 65536)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("error reading webhook body", logger.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := h.stripe.ParseWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, service.ErrNotConfigured) {
			log.Error("webhook received but not configured", logger.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		log.Warning("webhook signature verification failed", logger.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case eventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil || sess.ID == "" {
			log.Warning("malformed checkout.session payload", logger.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, err := h.deposits.ConfirmDeposit(r.Context(), sess.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Replays and sessions of already confirmed reservations.
				log.Info("no pending reservation for session", logger.String("session_id", sess.ID))
				break
			}
			log.Error("error confirming deposit", logger.String("session_id", sess.ID), logger.Error(err))
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	default:
		log.Debug("unhandled stripe event", logger.String("type", string(event.Type)))
	}

	w.WriteHeader(http.StatusOK)
}
