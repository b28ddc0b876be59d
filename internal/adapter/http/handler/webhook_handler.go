package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/chitledger/internal/adapter/collaborator/gateway"
	"github.com/iho/chitledger/internal/domain"
	applogger "github.com/iho/chitledger/internal/infrastructure/logger"
	"github.com/iho/chitledger/internal/usecase"
)

// WebhookSettlement is the slice of settlement the webhook drives.
type WebhookSettlement interface {
	ConfirmContribution(ctx context.Context, gatewayOrderID, paymentRef string) (*domain.Contribution, error)
	FailContribution(ctx context.Context, gatewayOrderID, reason string) (*domain.Contribution, error)
}

// WebhookHandler receives signed payment notifications from the gateway.
type WebhookHandler struct {
	settlementUC WebhookSettlement
	secret       string
	logger       zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(settlementUC WebhookSettlement, secret string, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		settlementUC: settlementUC,
		secret:       secret,
		logger:       logger,
	}
}

// Payments handles payment.captured and payment.failed. Business rejections
// are acknowledged with 200 so the gateway stops redelivering; transient
// failures answer 5xx so it retries.
func (h *WebhookHandler) Payments(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := gateway.ParseWebhook(body, r.Header.Get(gateway.SignatureHeader), h.secret)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidSignature) {
			writeError(w, http.StatusUnauthorized, "invalid signature", "")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid webhook payload", err.Error())
		return
	}

	log := applogger.FromContext(r.Context(), h.logger).With().
		Str("component", "webhook").
		Str("event", event.Event).
		Str("gateway_order_id", event.OrderID).
		Logger()

	switch event.Event {
	case gateway.EventPaymentCaptured:
		_, err = h.settlementUC.ConfirmContribution(r.Context(), event.OrderID, event.PaymentID)
	case gateway.EventPaymentFailed:
		reason := event.Reason
		if reason == "" {
			reason = "payment failed at gateway"
		}
		_, err = h.settlementUC.FailContribution(r.Context(), event.OrderID, reason)
	default:
		log.Debug().Msg("ignoring webhook event")
		writeJSON(w, http.StatusOK, map[string]string{"status": "ignored"})
		return
	}

	switch {
	case err == nil:
	case usecase.IsSettlementRejection(err), errors.Is(err, domain.ErrContributionNotFound):
		log.Warn().Err(err).Msg("webhook settlement rejected")
	default:
		log.Error().Err(err).Msg("webhook settlement failed")
		writeError(w, mapDomainError(err), "settlement failed", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
