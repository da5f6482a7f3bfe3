package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"places-autocomplete/internal/platform/apperr"
	"places-autocomplete/internal/platform/logger"
	"places-autocomplete/internal/platform/validator"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

// handleError maps typed errors to responses. Anything untyped is logged and
// reported as a 500 without leaking its message.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindUnknown {
		status := ae.HTTPStatus()
		if status >= http.StatusInternalServerError {
			log.WithContext(c.Request.Context()).Error("request failed",
				slog.String("path", c.FullPath()),
				slog.String("error", err.Error()),
			)
		}
		c.JSON(status, errorResponse{Error: ae.Message, Details: ae.Details})
		return
	}

	log.WithContext(c.Request.Context()).Error("request failed",
		slog.String("path", c.FullPath()),
		slog.String("error", err.Error()),
	)
	writeError(c, http.StatusInternalServerError, "internal server error")
}

// Abort writes err like handleError and stops the handler chain. Used by
// middleware.
func Abort(c *gin.Context, log *logger.Logger, err error) {
	handleError(c, log, err)
	c.Abort()
}

// writeBindError reports a failed request binding. Validation failures carry
// the offending fields as details.
func writeBindError(c *gin.Context, msg string, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Details: validator.FieldErrors(err)})
}
