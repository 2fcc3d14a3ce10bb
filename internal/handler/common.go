package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response helpers matching the plugin's JSON envelope: every endpoint
// answers {success, message, ...}.

func errorResponse(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]interface{}{
		"success": false,
		"message": msg,
	})
}

func badRequest(c echo.Context, msg string) error {
	return errorResponse(c, http.StatusBadRequest, msg)
}

func serverError(c echo.Context, msg string) error {
	return errorResponse(c, http.StatusInternalServerError, msg)
}
