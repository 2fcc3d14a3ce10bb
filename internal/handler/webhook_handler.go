package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paybridge/internal/middleware"
	"paybridge/internal/webhook"
)

// WebhookHandler receives PaidYET notifications: signature check, duplicate
// suppression, then an event-type switch. Forwarding to order management is
// a seam for the storefront side; this service only acknowledges.
type WebhookHandler struct {
	secret  string
	deduper middleware.EventDeduper
	logger  *zap.Logger
}

func NewWebhookHandler(secret string, deduper middleware.EventDeduper, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		secret:  secret,
		deduper: deduper,
		logger:  logger,
	}
}

// Handle processes POST /apps/paidyet/webhook.
func (h *WebhookHandler) Handle(c echo.Context) error {
	rawBody, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return serverError(c, "Webhook processing failed")
	}

	signature := c.Request().Header.Get(webhook.SignatureHeader)

	// Verification runs over the exact inbound bytes. The rejection body is
	// the same whatever went wrong, so a forger learns nothing about which
	// part failed.
	if !webhook.Verify(rawBody, signature, h.secret) {
		h.logger.Warn("webhook signature rejected")
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "Invalid signature",
		})
	}

	env, err := webhook.Parse(rawBody, signature)
	if err != nil {
		return badRequest(c, "Invalid webhook payload")
	}

	if h.deduper != nil && env.EventID != "" {
		seen, derr := h.deduper.Seen(c.Request().Context(), env.EventID)
		if derr == nil && seen {
			// Redelivery of an event already handled; acknowledge so the
			// gateway stops retrying.
			return c.JSON(http.StatusOK, map[string]interface{}{"received": true})
		}
	}

	switch env.EventType {
	case webhook.EventTransactionApproved:
		h.logger.Info("transaction approved", zap.String("transaction_id", env.TransactionID))
	case webhook.EventTransactionDeclined:
		h.logger.Info("transaction declined", zap.String("transaction_id", env.TransactionID))
	case webhook.EventTransactionRefunded:
		h.logger.Info("transaction refunded", zap.String("transaction_id", env.TransactionID))
	case webhook.EventTransactionVoided:
		h.logger.Info("transaction voided", zap.String("transaction_id", env.TransactionID))
	case webhook.EventBatchClosed:
		h.logger.Info("batch closed", zap.String("batch_id", env.BatchID))
	default:
		h.logger.Info("unhandled event type", zap.String("event_type", env.EventType))
	}

	// Always acknowledge known and unknown events alike.
	return c.JSON(http.StatusOK, map[string]interface{}{"received": true})
}
