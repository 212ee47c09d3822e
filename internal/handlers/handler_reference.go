package handlers

import (
	"log/slog"
	"net/http"

	"github.com/branchpay/teller_backend/internal/core/reference"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/branchpay/teller_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// referenceHandler handles HTTP requests for reference validation. It sits
// directly on the pure validation package; there is no state behind it.
type referenceHandler struct{}

func (h *referenceHandler) validateReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ValidateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for validateReference", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, ok := reference.Validate(req.ProviderCode, req.Reference, req.VerificationDigit)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider code " + req.ProviderCode})
		return
	}
	c.JSON(http.StatusOK, dto.ValidateReferenceResponse{
		Valid:         result.Valid,
		RequiresDigit: result.RequiresDigit,
		Reason:        result.Reason,
	})
}

func (h *referenceHandler) listProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": reference.ProviderCodes()})
}

// registerReferenceRoutes registers reference validation routes
func registerReferenceRoutes(group *gin.RouterGroup) {
	h := &referenceHandler{}

	references := group.Group("/references")
	{
		references.POST("/validate", h.validateReference)
		references.GET("/providers", h.listProviders)
	}
}
