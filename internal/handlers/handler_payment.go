package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/branchpay/teller_backend/internal/core/ports/services"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/branchpay/teller_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// paymentHandler handles HTTP requests for payment posting and the
// transaction lifecycle.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

// newPaymentHandler creates a new paymentHandler.
func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentService}
}

func (h *paymentHandler) postPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.PostPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for postPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	branchID, _ := middleware.GetBranchIDFromContext(c)

	resp, err := h.paymentService.PostPayment(c.Request.Context(), req, operatorID, branchID)
	if err != nil {
		respondError(c, logger, err, "Failed to post payment")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *paymentHandler) createDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createDraft", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	branchID, _ := middleware.GetBranchIDFromContext(c)

	resp, err := h.paymentService.CreateDraft(c.Request.Context(), req, operatorID, branchID)
	if err != nil {
		respondError(c, logger, err, "Failed to create draft")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *paymentHandler) postDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.paymentService.PostDraft(c.Request.Context(), transactionID, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to post draft")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *paymentHandler) cancelTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.paymentService.CancelTransaction(c.Request.Context(), transactionID, req.Reason, operatorID)
	if err != nil {
		respondError(c, logger, err, "Failed to cancel transaction")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *paymentHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.paymentService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *paymentHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	branchID, ok := middleware.GetBranchIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	params := dto.ListTransactionsParams{Limit: limit}
	if token := c.Query("nextToken"); token != "" {
		params.NextToken = &token
	}

	resp, err := h.paymentService.ListTransactions(c.Request.Context(), branchID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *paymentHandler) getCardAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	resp, err := h.paymentService.GetCardAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve card account")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *paymentHandler) checkCreditLimit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	providerCode := c.Query("providerCode")
	amount, err := decimal.NewFromString(c.DefaultQuery("amount", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	resp, err := h.paymentService.CheckCreditLimit(c.Request.Context(), providerCode, amount)
	if err != nil {
		respondError(c, logger, err, "Failed to check credit limit")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerPaymentRoutes registers payment and transaction specific routes
func registerPaymentRoutes(group *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := group.Group("/payments")
	{
		payments.POST("", h.postPayment)
		payments.GET("/credit-limit", h.checkCreditLimit)
	}

	transactions := group.Group("/transactions")
	{
		transactions.POST("/drafts", h.createDraft)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.POST("/:transactionID/post", h.postDraft)
		transactions.POST("/:transactionID/cancel", h.cancelTransaction)
	}

	cards := group.Group("/card-accounts")
	{
		cards.GET("/:accountID", h.getCardAccount)
	}
}
