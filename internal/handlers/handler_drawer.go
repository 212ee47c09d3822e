package handlers

import (
	"log/slog"
	"net/http"

	"github.com/branchpay/teller_backend/internal/core/domain"
	portssvc "github.com/branchpay/teller_backend/internal/core/ports/services"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/branchpay/teller_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// drawerHandler handles HTTP requests for the cash-drawer denomination ledger.
type drawerHandler struct {
	drawerService portssvc.DrawerSvcFacade
}

// newDrawerHandler creates a new drawerHandler.
func newDrawerHandler(drawerService portssvc.DrawerSvcFacade) *drawerHandler {
	return &drawerHandler{drawerService: drawerService}
}

func (h *drawerHandler) recordEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req dto.RecordEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for recordEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entries := make([]domain.DenominationEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, e.ToDomain())
	}

	total, err := h.drawerService.RecordEntries(c.Request.Context(), transactionID, entries, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to record denomination entries")
		return
	}
	c.JSON(http.StatusCreated, dto.RecordEntriesResponse{TransactionID: transactionID, TotalRecorded: total})
}

func (h *drawerHandler) getDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.drawerService.GetDrawerBalance(c.Request.Context(), operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve drawer")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *drawerHandler) adjustDrawer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.AdjustDrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for adjustDrawer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.drawerService.AdjustDrawer(c.Request.Context(), operatorID, req, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to adjust drawer")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *drawerHandler) computeChange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ComputeChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for computeChange", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.drawerService.ComputeChange(c.Request.Context(), operatorID, req)
	if err != nil {
		respondError(c, logger, err, "Failed to compute change")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerDrawerRoutes registers drawer specific routes
func registerDrawerRoutes(group *gin.RouterGroup, drawerService portssvc.DrawerSvcFacade) {
	h := newDrawerHandler(drawerService)

	drawer := group.Group("/drawer")
	{
		drawer.GET("", h.getDrawer)
		drawer.POST("/adjust", h.adjustDrawer)
		drawer.POST("/change", h.computeChange)
	}

	group.POST("/transactions/:transactionID/denominations", h.recordEntries)
}
