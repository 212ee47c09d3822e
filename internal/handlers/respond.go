package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/cash"
	"github.com/gin-gonic/gin"
)

// respondError translates service errors to HTTP responses. AppError codes
// win when present; otherwise the sentinel decides; anything unrecognized is
// a 500 with the fallback message so internals never leak to the caller.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var unreachable *cash.UnreachableChangeError
	if errors.As(err, &unreachable) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": unreachable.Error(), "short": unreachable.Short})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrFormat),
		errors.Is(err, apperrors.ErrChecksum),
		errors.Is(err, apperrors.ErrReconciliation),
		errors.Is(err, apperrors.ErrLimitExceeded),
		errors.Is(err, apperrors.ErrInsufficientInventory),
		errors.Is(err, apperrors.ErrUnreachableChange):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStateConflict), errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
