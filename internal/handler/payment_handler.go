package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paybridge/internal/paidyet"
)

// PaymentHandler exposes the checkout-facing payment endpoints and maps
// dispatch outcomes onto the plugin's response shapes.
type PaymentHandler struct {
	dispatcher *paidyet.Dispatcher
	creds      paidyet.Credentials
	logger     *zap.Logger
}

func NewPaymentHandler(dispatcher *paidyet.Dispatcher, creds paidyet.Credentials, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		dispatcher: dispatcher,
		creds:      creds,
		logger:     logger,
	}
}

type billingAddressRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Postal  string `json:"postal"`
}

type customerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type processPaymentRequest struct {
	Token          string                `json:"token"`
	OrderID        string                `json:"order_id"`
	Amount         decimal.Decimal       `json:"amount"`
	Currency       string                `json:"currency"`
	BillingAddress billingAddressRequest `json:"billing_address"`
	Customer       customerRequest       `json:"customer"`
	MerchantUUID   string                `json:"merchant_uuid"` // partner-level API keys only
}

// ProcessPayment handles POST /apps/paidyet/process-payment.
func (h *PaymentHandler) ProcessPayment(c echo.Context) error {
	var req processPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Missing required payment information")
	}

	intent := paidyet.NewSale(
		req.Token,
		req.OrderID,
		req.Currency,
		req.Amount,
		paidyet.BillingAddress{
			Address: req.BillingAddress.Address,
			City:    req.BillingAddress.City,
			State:   req.BillingAddress.State,
			Postal:  req.BillingAddress.Postal,
		},
		paidyet.Customer{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
		},
	)
	intent.MerchantUUID = req.MerchantUUID

	out, ok, err := h.dispatch(c, intent, "Payment processing failed")
	if !ok {
		return err
	}

	if out.Kind == paidyet.Approved {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":        true,
			"transaction_id": out.TransactionID,
			"status":         out.Status,
			"message":        "Payment processed successfully",
			"redirect_url":   "/checkout/thank_you?order_id=" + req.OrderID,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": false,
		"status":  out.Status,
		"message": out.Message,
		"error":   declineError(out),
	})
}

// declineError surfaces the gateway's error object on a decline, an empty
// object when the reply carried none.
func declineError(out paidyet.Outcome) interface{} {
	if out.Response != nil && out.Response.Err != nil {
		return out.Response.Err
	}
	return map[string]interface{}{}
}

type refundRequest struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	OrderID       string          `json:"order_id"`
}

// Refund handles POST /apps/paidyet/refund.
func (h *PaymentHandler) Refund(c echo.Context) error {
	var req refundRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Missing required refund information")
	}

	intent := paidyet.NewRefund(req.TransactionID, req.OrderID, req.Amount)

	out, ok, err := h.dispatch(c, intent, "Refund failed")
	if !ok {
		return err
	}

	if out.Kind == paidyet.Approved {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":   true,
			"refund_id": out.TransactionID,
			"status":    out.Status,
			"message":   "Refund processed successfully",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": false,
		"status":  out.Status,
		"message": out.Message,
	})
}

type captureRequest struct {
	TransactionID string           `json:"transaction_id"`
	Amount        *decimal.Decimal `json:"amount"`
}

// Capture handles POST /apps/paidyet/capture.
func (h *PaymentHandler) Capture(c echo.Context) error {
	var req captureRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Missing transaction ID")
	}

	intent := paidyet.NewCapture(req.TransactionID, req.Amount)

	out, ok, err := h.dispatch(c, intent, "Capture failed")
	if !ok {
		return err
	}

	if out.Kind == paidyet.Approved {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":        true,
			"transaction_id": out.TransactionID,
			"status":         out.Status,
			"message":        "Transaction captured successfully",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": false,
		"status":  out.Status,
		"message": out.Message,
	})
}

type voidRequest struct {
	TransactionID string `json:"transaction_id"`
}

// Void handles POST /apps/paidyet/void.
func (h *PaymentHandler) Void(c echo.Context) error {
	var req voidRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Missing transaction ID")
	}

	intent := paidyet.NewVoid(req.TransactionID)

	out, ok, err := h.dispatch(c, intent, "Void failed")
	if !ok {
		return err
	}

	if out.Kind == paidyet.Approved {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":        true,
			"transaction_id": out.TransactionID,
			"status":         out.Status,
			"message":        "Transaction voided successfully",
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": false,
		"status":  out.Status,
		"message": out.Message,
	})
}

// GetTransaction handles GET /apps/paidyet/transaction/:transaction_id.
func (h *PaymentHandler) GetTransaction(c echo.Context) error {
	intent := paidyet.NewQuery(c.Param("transaction_id"))

	out, ok, err := h.dispatch(c, intent, "Failed to retrieve transaction")
	if !ok {
		return err
	}

	if out.Response != nil && out.Kind != paidyet.FatalFailure {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success":     true,
			"transaction": out.Response.Raw,
		})
	}
	return serverError(c, "Failed to retrieve transaction")
}

// dispatch runs the intent and handles the error taxonomy and the failure
// outcomes uniformly; the per-endpoint handlers only shape approvals and
// declines. ok reports whether an Approved or Declined outcome came back;
// otherwise the response has already been written and the returned error is
// whatever the JSON write produced.
func (h *PaymentHandler) dispatch(c echo.Context, intent paidyet.Intent, failMsg string) (paidyet.Outcome, bool, error) {
	requestID := uuid.NewString()
	log := h.logger.With(
		zap.String("request_id", requestID),
		zap.String("intent", string(intent.Kind)),
	)

	out, err := h.dispatcher.Dispatch(c.Request().Context(), h.creds, intent)
	if err != nil {
		var verr *paidyet.ValidationError
		if errors.As(err, &verr) {
			return paidyet.Outcome{}, false, badRequest(c, verr.Error())
		}

		var aerr *paidyet.AuthError
		if errors.As(err, &aerr) {
			// Operator problem, not a shopper problem: bad credentials will
			// not fix themselves on retry.
			log.Error("authentication failed", zap.Error(err))
			return paidyet.Outcome{}, false, serverError(c, "Payment gateway not properly configured")
		}

		log.Error("dispatch failed", zap.Error(err))
		return paidyet.Outcome{}, false, serverError(c, failMsg)
	}

	switch out.Kind {
	case paidyet.TransientFailure:
		log.Warn("gateway unreachable", zap.Error(out.Cause))
		return paidyet.Outcome{}, false, errorResponse(c, http.StatusBadGateway, failMsg)
	case paidyet.FatalFailure:
		log.Error("dispatch gave up", zap.Error(out.Cause))
		return paidyet.Outcome{}, false, serverError(c, failMsg)
	}

	log.Info("dispatch completed",
		zap.String("outcome", string(out.Kind)),
		zap.String("transaction_id", out.TransactionID),
	)
	return out, true, nil
}
