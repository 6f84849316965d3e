package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/core/domain"
	"github.com/SscSPs/general_ledger/internal/dto"
	"github.com/SscSPs/general_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the HTTP error taxonomy. Internal
// failures are logged with detail and answered with a generic message.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Warn("Entry rejected", slog.String("action", action), slog.String("kind", string(verr.Kind)))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Detail: dto.ToValidationDetail(verr)})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Conflict", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case apperrors.IsRetryable(err):
		logger.Warn("Ledger busy", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Ledger is busy, please retry", Retryable: true})
	default:
		logger.Error("Request failed", slog.String("action", action), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to " + action})
	}
}

// requireUserID aborts with 401 when the auth middleware did not identify the caller.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

func badRequest(c *gin.Context, msg string, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err != nil {
		logger.Warn(msg, slog.String("error", err.Error()))
		msg += ": " + err.Error()
	} else {
		logger.Warn(msg)
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}
