package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/branchpay/teller_backend/internal/core/ports/services"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/branchpay/teller_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recoveryHandler handles HTTP requests for rollback, retry and snapshots.
type recoveryHandler struct {
	recoveryService portssvc.RecoverySvcFacade
}

// newRecoveryHandler creates a new recoveryHandler.
func newRecoveryHandler(recoveryService portssvc.RecoverySvcFacade) *recoveryHandler {
	return &recoveryHandler{recoveryService: recoveryService}
}

func (h *recoveryHandler) canRollback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	resp, err := h.recoveryService.CanRollback(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to check rollback eligibility")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *recoveryHandler) rollback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for rollback", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.recoveryService.Rollback(c.Request.Context(), transactionID, req.Reason, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to roll back transaction")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *recoveryHandler) retry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.RetryRequest
	_ = c.ShouldBindJSON(&req)

	actorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.recoveryService.Retry(c.Request.Context(), transactionID, req.MaxAttempts, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to retry transaction")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *recoveryHandler) snapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	actorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.recoveryService.Snapshot(c.Request.Context(), transactionID, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to snapshot transaction")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *recoveryHandler) restore(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	snapshotID := c.Param("snapshotID")

	actorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.recoveryService.Restore(c.Request.Context(), snapshotID, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to restore snapshot")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *recoveryHandler) listAudit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := dto.ListAuditParams{
		EntityID: c.Query("entityID"),
		Limit:    limit,
	}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.recoveryService.ListAudit(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list audit entries")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerRecoveryRoutes registers rollback/retry/snapshot specific routes
func registerRecoveryRoutes(group *gin.RouterGroup, recoveryService portssvc.RecoverySvcFacade) {
	h := newRecoveryHandler(recoveryService)

	transactions := group.Group("/transactions")
	{
		transactions.GET("/:transactionID/rollback", h.canRollback)
		transactions.POST("/:transactionID/rollback", h.rollback)
		transactions.POST("/:transactionID/retry", h.retry)
		transactions.POST("/:transactionID/snapshot", h.snapshot)
	}

	snapshots := group.Group("/snapshots")
	{
		snapshots.POST("/:snapshotID/restore", h.restore)
	}

	group.GET("/audit", h.listAudit)
}
