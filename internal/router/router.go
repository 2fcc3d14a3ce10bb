package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"paybridge/internal/config"
	"paybridge/internal/handler"
	"paybridge/internal/middleware"
	"paybridge/internal/paidyet"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	cfg *config.Config,
	dispatcher *paidyet.Dispatcher,
	creds paidyet.Credentials,
	deduper middleware.EventDeduper,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Handlers
	paymentHandler := handler.NewPaymentHandler(dispatcher, creds, logger)
	webhookHandler := handler.NewWebhookHandler(cfg.PaidYET.WebhookSecret, deduper, logger)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":      "healthy",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.PaidYET.Environment,
		})
	})

	// Payment group with the plugin's rate limit
	app := e.Group("/apps/paidyet")
	app.Use(middleware.RateLimit(cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window))

	app.POST("/process-payment", paymentHandler.ProcessPayment)
	app.POST("/refund", paymentHandler.Refund)
	app.POST("/capture", paymentHandler.Capture)
	app.POST("/void", paymentHandler.Void)
	app.GET("/transaction/:transaction_id", paymentHandler.GetTransaction)
	app.POST("/webhook", webhookHandler.Handle)
}
