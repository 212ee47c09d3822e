package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/cash"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	portssvc "github.com/branchpay/teller_backend/internal/core/ports/services"
	"github.com/branchpay/teller_backend/internal/core/reference"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/branchpay/teller_backend/internal/metrics"
	"github.com/branchpay/teller_backend/internal/middleware"
	"github.com/branchpay/teller_backend/internal/platform/config"
	"github.com/branchpay/teller_backend/internal/utils/money"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the counter.
const (
	MethodCash = "CASH"
)

// metaVerificationDigit is the item metadata key carrying the customer's
// verification digit, so drafts keep it for posting later.
const metaVerificationDigit = "verificationDigit"

// Minimum payments always land on a half-unit boundary.
var minPaymentStep = decimal.NewFromFloat(0.5)

// paymentService owns payment posting, the draft lifecycle and card account reads.
type paymentService struct {
	txnRepo    portsrepo.TransactionRepositoryFacade
	drawerRepo portsrepo.DrawerRepositoryFacade
	cardRepo   portsrepo.CardAccountRepositoryFacade
	auditRepo  portsrepo.AuditRepositoryFacade
	cfg        *config.Config
	profile    cash.Profile
	now        func() time.Time
}

// NewPaymentService creates a new payment service.
func NewPaymentService(repos portsrepo.RepositoryProvider, cfg *config.Config) portssvc.PaymentSvcFacade {
	profile, ok := cash.ProfileByName(cfg.CurrencyProfile)
	if !ok {
		profile, _ = cash.ProfileByName(cash.ProfileStandard)
	}
	return &paymentService{
		txnRepo:    repos.TransactionRepo,
		drawerRepo: repos.DrawerRepo,
		cardRepo:   repos.CardAccountRepo,
		auditRepo:  repos.AuditRepo,
		cfg:        cfg,
		profile:    profile,
		now:        time.Now,
	}
}

// Ensure paymentService implements the portssvc.PaymentSvcFacade interface
var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// validateItemReferences runs each line's provider reference through the
// provider rule. A missing-but-required verification digit blocks posting the
// same way a checksum failure does.
func validateItemReferences(items []domain.TransactionItem) error {
	for _, item := range items {
		if item.ProviderCode == "" {
			continue
		}
		result, ok := reference.Validate(item.ProviderCode, item.ReferenceNumber, item.Metadata[metaVerificationDigit])
		if !ok {
			metrics.PaymentsRejected.WithLabelValues("format").Inc()
			return apperrors.NewAppError(400, "unknown provider code "+item.ProviderCode, apperrors.ErrValidation)
		}
		if !result.Valid {
			if result.Kind == reference.KindFormat {
				metrics.PaymentsRejected.WithLabelValues("format").Inc()
				return apperrors.NewAppError(422, fmt.Sprintf("reference %s rejected: %s", item.ReferenceNumber, result.Reason), apperrors.ErrFormat)
			}
			metrics.PaymentsRejected.WithLabelValues("checksum").Inc()
			return apperrors.NewAppError(422, fmt.Sprintf("reference %s rejected: %s", item.ReferenceNumber, result.Reason), apperrors.ErrChecksum)
		}
	}
	return nil
}

// diestelHeadroom returns the remaining total and daily capacity for Diestel
// postings. Both figures are computed from completed transaction rows.
func (s *paymentService) diestelHeadroom(ctx context.Context) (remainingTotal, remainingDaily decimal.Decimal, err error) {
	used, err := s.txnRepo.SumCompletedByType(ctx, domain.DiestelPayment)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	now := s.now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	usedToday, err := s.txnRepo.SumCompletedByTypeSince(ctx, domain.DiestelPayment, startOfDay)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return s.cfg.DiestelTotalCap.Sub(used), s.cfg.DiestelDailyMax.Sub(usedToday), nil
}

// checkDiestelLimits gates a Diestel posting against the per-transaction
// minimum, the daily band and the running total cap.
func (s *paymentService) checkDiestelLimits(ctx context.Context, amount decimal.Decimal) error {
	if amount.LessThan(s.cfg.DiestelDailyMin) {
		metrics.PaymentsRejected.WithLabelValues("limit").Inc()
		return apperrors.NewAppError(422, fmt.Sprintf("amount %s is below the Diestel per-transaction minimum of %s", amount, s.cfg.DiestelDailyMin), apperrors.ErrLimitExceeded)
	}
	remainingTotal, remainingDaily, err := s.diestelHeadroom(ctx)
	if err != nil {
		return err
	}
	if amount.GreaterThan(remainingDaily) {
		metrics.PaymentsRejected.WithLabelValues("limit").Inc()
		return apperrors.NewAppError(422, fmt.Sprintf("amount %s exceeds the remaining Diestel daily capacity of %s", amount, remainingDaily), apperrors.ErrLimitExceeded)
	}
	if amount.GreaterThan(remainingTotal) {
		metrics.PaymentsRejected.WithLabelValues("limit").Inc()
		return apperrors.NewAppError(422, fmt.Sprintf("amount %s exceeds the remaining Diestel credit of %s", amount, remainingTotal), apperrors.ErrLimitExceeded)
	}
	return nil
}

// buildItems converts request lines into domain items and returns them with
// the transaction total. A supplied verification digit is stored in the item's
// metadata; it persists with the item so a draft stays postable.
func buildItems(reqItems []dto.PaymentItemRequest, transactionID, operatorID string, now time.Time) ([]domain.TransactionItem, decimal.Decimal, error) {
	items := make([]domain.TransactionItem, 0, len(reqItems))
	total := decimal.Zero
	for _, itemReq := range reqItems {
		if itemReq.Amount.IsNegative() {
			return nil, decimal.Zero, apperrors.NewAppError(400, "item amount cannot be negative", apperrors.ErrValidation)
		}
		metadata := itemReq.Metadata
		if itemReq.VerificationDigit != "" {
			metadata = make(map[string]string, len(itemReq.Metadata)+1)
			for k, v := range itemReq.Metadata {
				metadata[k] = v
			}
			metadata[metaVerificationDigit] = itemReq.VerificationDigit
		}
		item := domain.TransactionItem{
			ItemID:           uuid.NewString(),
			TransactionID:    transactionID,
			Description:      itemReq.Description,
			Amount:           itemReq.Amount,
			Quantity:         itemReq.Quantity,
			ServiceReference: itemReq.ServiceReference,
			ProviderCode:     strings.ToUpper(strings.TrimSpace(itemReq.ProviderCode)),
			ReferenceNumber:  itemReq.ReferenceNumber,
			Metadata:         metadata,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     operatorID,
				LastUpdatedAt: now,
				LastUpdatedBy: operatorID,
			},
		}
		items = append(items, item)
		total = total.Add(item.Subtotal())
	}
	return items, total, nil
}

// nextNumbers draws the transaction and receipt numbers for the posting day.
func (s *paymentService) nextNumbers(ctx context.Context, txnType domain.TransactionType, day time.Time) (string, string, error) {
	seq, err := s.txnRepo.NextDailySequence(ctx, txnType.NumberPrefix(), day)
	if err != nil {
		return "", "", err
	}
	receiptSeq, err := s.txnRepo.NextDailySequence(ctx, "RCP", day)
	if err != nil {
		return "", "", err
	}
	dayStr := day.Format("20060102")
	return fmt.Sprintf("%s-%s-%04d", txnType.NumberPrefix(), dayStr, seq),
		fmt.Sprintf("RCP-%s-%06d", dayStr, receiptSeq), nil
}

// PostPayment runs the full synchronous posting flow: reference validation,
// Diestel limit checks, cash reconciliation and change computation, then
// persists everything as one unit of work.
func (s *paymentService) PostPayment(ctx context.Context, req dto.PostPaymentRequest, operatorID, branchID string) (*dto.PostPaymentResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txnType := domain.TransactionType(strings.ToUpper(req.TransactionType))
	if !txnType.IsValid() {
		return nil, apperrors.NewAppError(400, "unknown transaction type "+req.TransactionType, apperrors.ErrValidation)
	}
	if req.CashReceived.IsNegative() {
		return nil, apperrors.NewAppError(400, "cashReceived cannot be negative", apperrors.ErrValidation)
	}

	now := s.now()
	transactionID := uuid.NewString()

	items, total, err := buildItems(req.Items, transactionID, operatorID, now)
	if err != nil {
		return nil, err
	}
	if err := validateItemReferences(items); err != nil {
		return nil, err
	}
	if txnType == domain.DiestelPayment {
		if err := s.checkDiestelLimits(ctx, total); err != nil {
			return nil, err
		}
	}

	// Card payments settle the customer's outstanding card balance; the cash
	// side below still applies when they pay at the counter.
	var cardDebit *portsrepo.CardDebit
	var newBalance *decimal.Decimal
	if txnType == domain.CardPayment {
		if req.CardAccountID == "" {
			return nil, apperrors.NewAppError(400, "cardAccountID is required for card payments", apperrors.ErrValidation)
		}
		account, err := s.cardRepo.FindCardAccountByID(ctx, req.CardAccountID)
		if err != nil {
			return nil, err
		}
		if !account.IsActive {
			return nil, apperrors.NewAppError(422, "card account "+account.AccountID+" is inactive", apperrors.ErrValidation)
		}
		if total.GreaterThan(account.Balance) {
			return nil, apperrors.NewAppError(422, fmt.Sprintf("payment %s exceeds the outstanding balance %s", total, account.Balance), apperrors.ErrValidation)
		}
		cardDebit = &portsrepo.CardDebit{AccountID: account.AccountID, Amount: total}
		nb := account.Balance.Sub(total)
		newBalance = &nb
	}

	entries := make([]domain.DenominationEntry, 0, len(req.Denominations))
	for _, entryReq := range req.Denominations {
		entry := entryReq.ToDomain()
		entry.EntryID = uuid.NewString()
		entry.TransactionID = transactionID
		entry.AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: operatorID, LastUpdatedAt: now, LastUpdatedBy: operatorID}
		entries = append(entries, entry)
	}

	// Denomination entries describe physical cash; only cash payments and
	// withdrawals move any.
	isCash := strings.EqualFold(req.PaymentMethod, MethodCash)
	if len(entries) > 0 && !isCash && txnType != domain.CashWithdrawal {
		return nil, apperrors.NewAppError(400, "denomination entries are only accepted on cash payments", apperrors.ErrValidation)
	}

	changeAmount := decimal.Zero
	var changeLines []cash.ChangeLine

	switch {
	case txnType == domain.CashWithdrawal:
		var err error
		entries, changeLines, err = s.prepareWithdrawal(ctx, transactionID, operatorID, total, entries, now)
		if err != nil {
			return nil, err
		}
		changeAmount = total
	case isCash:
		if err := cash.ValidateEntries(s.profile, entries); err != nil {
			metrics.PaymentsRejected.WithLabelValues("reconciliation").Inc()
			return nil, err
		}
		if err := cash.Reconcile(entries, req.CashReceived, total); err != nil {
			metrics.PaymentsRejected.WithLabelValues("reconciliation").Inc()
			return nil, err
		}
		changeAmount = req.CashReceived.Sub(total)
		if changeAmount.LessThan(decimal.Zero) {
			changeAmount = decimal.Zero
		}
		if changeAmount.GreaterThanOrEqual(money.Tolerance) {
			var err error
			changeLines, err = s.computeChangeFromDrawer(ctx, operatorID, changeAmount, entries)
			if err != nil {
				metrics.PaymentsRejected.WithLabelValues("inventory").Inc()
				return nil, err
			}
			for _, line := range changeLines {
				entries = append(entries, domain.DenominationEntry{
					EntryID:       uuid.NewString(),
					TransactionID: transactionID,
					EntryType:     domain.EntryChange,
					Denomination:  line.Denomination,
					Quantity:      line.Quantity,
					Amount:        line.Denomination.Mul(decimal.NewFromInt(int64(line.Quantity))),
					AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: operatorID, LastUpdatedAt: now, LastUpdatedBy: operatorID},
				})
			}
		}
	}

	number, receipt, err := s.nextNumbers(ctx, txnType, now)
	if err != nil {
		return nil, err
	}

	postedAt := now
	txn := domain.Transaction{
		TransactionID:     transactionID,
		TransactionNumber: number,
		ReceiptNumber:     receipt,
		TransactionType:   txnType,
		Status:            domain.StatusCompleted,
		TotalAmount:       total,
		PaymentMethod:     strings.ToUpper(req.PaymentMethod),
		CustomerReference: req.CustomerReference,
		CardAccountID:     req.CardAccountID,
		OperatorID:        operatorID,
		BranchID:          branchID,
		PostedAt:          &postedAt,
		Notes:             req.Notes,
		AuditFields:       domain.AuditFields{CreatedAt: now, CreatedBy: operatorID, LastUpdatedAt: now, LastUpdatedBy: operatorID},
	}

	bundle := portsrepo.PostingBundle{
		Transaction:   txn,
		Items:         items,
		Denominations: entries,
		DrawerDeltas:  drawerDeltas(entries),
		CardDebit:     cardDebit,
		Audit: domain.AuditEntry{
			EntryID:     uuid.NewString(),
			Action:      domain.AuditTransactionPosted,
			EntityType:  "transaction",
			EntityID:    transactionID,
			AfterStatus: string(domain.StatusCompleted),
			Reason:      "posted " + number,
			ActorID:     operatorID,
			OccurredAt:  now,
		},
	}

	if err := s.txnRepo.SavePosting(ctx, bundle); err != nil {
		logger.Error("failed to persist posting", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		return nil, err
	}

	metrics.PaymentsPosted.WithLabelValues(string(txnType)).Inc()
	logger.Info("payment posted",
		slog.String("transaction_id", transactionID),
		slog.String("transaction_number", number),
		slog.String("type", string(txnType)),
		slog.String("total", total.String()),
	)

	return &dto.PostPaymentResponse{
		TransactionID:     transactionID,
		TransactionNumber: number,
		ReceiptNumber:     receipt,
		Status:            string(domain.StatusCompleted),
		TotalAmount:       total,
		CashReceived:      req.CashReceived,
		ChangeAmount:      changeAmount,
		Change:            changeLines,
		NewBalance:        newBalance,
	}, nil
}

// prepareWithdrawal builds the dispensed entries for a cash withdrawal. When
// the teller did not pick the breakdown, the greedy computation over the
// drawer decides it.
func (s *paymentService) prepareWithdrawal(ctx context.Context, transactionID, operatorID string, total decimal.Decimal, entries []domain.DenominationEntry, now time.Time) ([]domain.DenominationEntry, []cash.ChangeLine, error) {
	if len(entries) > 0 {
		if err := cash.ValidateEntries(s.profile, entries); err != nil {
			metrics.PaymentsRejected.WithLabelValues("reconciliation").Inc()
			return nil, nil, err
		}
		dispensed := cash.SumEntries(entries, domain.EntryChange)
		if !money.WithinTolerance(dispensed, total) {
			metrics.PaymentsRejected.WithLabelValues("reconciliation").Inc()
			return nil, nil, apperrors.NewAppError(422, fmt.Sprintf("dispensed denominations sum to %s, expected %s", dispensed, total), apperrors.ErrReconciliation)
		}
		lines := make([]cash.ChangeLine, 0, len(entries))
		for _, e := range entries {
			if e.EntryType == domain.EntryChange {
				lines = append(lines, cash.ChangeLine{
					Denomination: e.Denomination,
					Quantity:     e.Quantity,
					Amount:       e.Denomination.Mul(decimal.NewFromInt(int64(e.Quantity))),
				})
			}
		}
		return entries, lines, nil
	}

	lines, err := s.computeChangeFromDrawer(ctx, operatorID, total, nil)
	if err != nil {
		metrics.PaymentsRejected.WithLabelValues("inventory").Inc()
		return nil, nil, err
	}
	built := make([]domain.DenominationEntry, 0, len(lines))
	for _, line := range lines {
		built = append(built, domain.DenominationEntry{
			EntryID:       uuid.NewString(),
			TransactionID: transactionID,
			EntryType:     domain.EntryChange,
			Denomination:  line.Denomination,
			Quantity:      line.Quantity,
			Amount:        line.Denomination.Mul(decimal.NewFromInt(int64(line.Quantity))),
			AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: operatorID, LastUpdatedAt: now, LastUpdatedBy: operatorID},
		})
	}
	return built, lines, nil
}

// computeChangeFromDrawer builds the dispensing inventory from the operator's
// drawer plus the cash just received, then runs the exact-change computation.
func (s *paymentService) computeChangeFromDrawer(ctx context.Context, operatorID string, amount decimal.Decimal, received []domain.DenominationEntry) ([]cash.ChangeLine, error) {
	balances, err := s.drawerRepo.GetDrawerBalances(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	inventory := cash.Inventory{}
	for _, b := range balances {
		inventory[cash.Key(b.Denomination)] += b.Quantity
	}
	for _, e := range received {
		if e.EntryType == domain.EntryReceived {
			inventory[cash.Key(e.Denomination)] += e.Quantity
		}
	}
	return cash.ComputeChange(s.profile, amount, inventory)
}

// drawerDeltas folds denomination entries into signed per-denomination drawer
// movements: received adds, change subtracts, payment splits are neutral.
func drawerDeltas(entries []domain.DenominationEntry) map[string]int {
	deltas := map[string]int{}
	for _, e := range entries {
		switch e.EntryType {
		case domain.EntryReceived:
			deltas[cash.Key(e.Denomination)] += e.Quantity
		case domain.EntryChange:
			deltas[cash.Key(e.Denomination)] -= e.Quantity
		}
	}
	return deltas
}

// CheckCreditLimit reports remaining Diestel headroom for an amount. Providers
// without posting limits always pass.
func (s *paymentService) CheckCreditLimit(ctx context.Context, providerCode string, amount decimal.Decimal) (*dto.CreditLimitResponse, error) {
	rule, ok := reference.RuleFor(providerCode)
	if !ok {
		return nil, apperrors.NewAppError(400, "unknown provider code "+providerCode, apperrors.ErrValidation)
	}
	if rule.Code != reference.ProviderDiestel {
		return &dto.CreditLimitResponse{CanProcess: true, Message: "provider " + rule.Code + " has no posting limits"}, nil
	}

	remainingTotal, remainingDaily, err := s.diestelHeadroom(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.CreditLimitResponse{
		CanProcess:     true,
		RemainingTotal: remainingTotal,
		RemainingDaily: remainingDaily,
	}
	switch {
	case amount.LessThan(s.cfg.DiestelDailyMin):
		resp.CanProcess = false
		resp.Message = fmt.Sprintf("amount %s is below the per-transaction minimum of %s", amount, s.cfg.DiestelDailyMin)
	case amount.GreaterThan(remainingDaily):
		resp.CanProcess = false
		resp.Message = fmt.Sprintf("amount %s exceeds the remaining daily capacity of %s", amount, remainingDaily)
	case amount.GreaterThan(remainingTotal):
		resp.CanProcess = false
		resp.Message = fmt.Sprintf("amount %s exceeds the remaining credit of %s", amount, remainingTotal)
	}
	return resp, nil
}

// CreateDraft creates a transaction in Draft status for two-step posting.
// Drafts carry a transaction number but no receipt; receipts are only issued
// when money moves.
func (s *paymentService) CreateDraft(ctx context.Context, req dto.CreateDraftRequest, operatorID, branchID string) (*dto.TransactionResponse, error) {
	txnType := domain.TransactionType(strings.ToUpper(req.TransactionType))
	if !txnType.IsValid() {
		return nil, apperrors.NewAppError(400, "unknown transaction type "+req.TransactionType, apperrors.ErrValidation)
	}

	now := s.now()
	transactionID := uuid.NewString()
	items, total, err := buildItems(req.Items, transactionID, operatorID, now)
	if err != nil {
		return nil, err
	}

	seq, err := s.txnRepo.NextDailySequence(ctx, txnType.NumberPrefix(), now)
	if err != nil {
		return nil, err
	}
	number := fmt.Sprintf("%s-%s-%04d", txnType.NumberPrefix(), now.Format("20060102"), seq)

	txn := domain.Transaction{
		TransactionID:     transactionID,
		TransactionNumber: number,
		TransactionType:   txnType,
		Status:            domain.StatusDraft,
		TotalAmount:       total,
		PaymentMethod:     strings.ToUpper(req.PaymentMethod),
		CustomerReference: req.CustomerReference,
		OperatorID:        operatorID,
		BranchID:          branchID,
		Notes:             req.Notes,
		Items:             items,
		AuditFields:       domain.AuditFields{CreatedAt: now, CreatedBy: operatorID, LastUpdatedAt: now, LastUpdatedBy: operatorID},
	}
	if err := s.txnRepo.SaveDraft(ctx, txn, items); err != nil {
		return nil, err
	}

	resp := dto.ToTransactionResponse(&txn)
	return &resp, nil
}

// PostDraft transitions a Draft transaction to Posted after re-running the
// reference gates over its stored items.
func (s *paymentService) PostDraft(ctx context.Context, transactionID, operatorID string) (*dto.TransactionResponse, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusDraft {
		return nil, apperrors.NewAppError(409, "transaction "+transactionID+" is in status "+string(txn.Status)+", expected DRAFT", apperrors.ErrStateConflict)
	}

	items, err := s.txnRepo.FindItemsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := validateItemReferences(items); err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.StatusDraft, domain.StatusPosted, &now, operatorID, now); err != nil {
		return nil, err
	}
	if err := s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
		EntryID:      uuid.NewString(),
		Action:       domain.AuditTransactionPosted,
		EntityType:   "transaction",
		EntityID:     transactionID,
		BeforeStatus: string(domain.StatusDraft),
		AfterStatus:  string(domain.StatusPosted),
		Reason:       "draft posted",
		ActorID:      operatorID,
		OccurredAt:   now,
	}); err != nil {
		return nil, err
	}

	txn.Status = domain.StatusPosted
	txn.PostedAt = &now
	txn.Items = items
	resp := dto.ToTransactionResponse(txn)
	return &resp, nil
}

// CancelTransaction transitions a transaction to Cancelled. Money that has
// already posted cannot be cancelled, only rolled back.
func (s *paymentService) CancelTransaction(ctx context.Context, transactionID, reason, operatorID string) (*dto.TransactionResponse, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.CanCancel() {
		return nil, apperrors.NewAppError(409, "cannot cancel transaction in status "+string(txn.Status), apperrors.ErrStateConflict)
	}

	now := s.now()
	if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, txn.Status, domain.StatusCancelled, nil, operatorID, now); err != nil {
		return nil, err
	}
	if err := s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
		EntryID:      uuid.NewString(),
		Action:       domain.AuditTransactionCancel,
		EntityType:   "transaction",
		EntityID:     transactionID,
		BeforeStatus: string(txn.Status),
		AfterStatus:  string(domain.StatusCancelled),
		Reason:       reason,
		ActorID:      operatorID,
		OccurredAt:   now,
	}); err != nil {
		return nil, err
	}

	txn.Status = domain.StatusCancelled
	resp := dto.ToTransactionResponse(txn)
	return &resp, nil
}

// GetTransaction retrieves a transaction with its line items.
func (s *paymentService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	items, err := s.txnRepo.FindItemsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn.Items = items
	return txn, nil
}

// ListTransactions retrieves a paginated page of a branch's transactions.
func (s *paymentService) ListTransactions(ctx context.Context, branchID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	txns, nextToken, err := s.txnRepo.ListTransactionsByBranch(ctx, branchID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListTransactionsResponse{NextToken: nextToken, Transactions: make([]dto.TransactionResponse, 0, len(txns))}
	for i := range txns {
		resp.Transactions = append(resp.Transactions, dto.ToTransactionResponse(&txns[i]))
	}
	return resp, nil
}

// minimumPayment applies the rate to the balance, enforces the floor, rounds
// up to the half-unit step and finally caps at the balance itself.
func minimumPayment(balance, rate, floor decimal.Decimal) decimal.Decimal {
	if balance.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	minimum := balance.Mul(rate)
	if minimum.LessThan(floor) {
		minimum = floor
	}
	minimum = money.RoundUpToStep(minimum, minPaymentStep)
	if minimum.GreaterThan(balance) {
		minimum = balance
	}
	return minimum
}

// GetCardAccount retrieves a card account with its derived figures. Available
// credit rounds down to the smallest denomination; the minimum payment rounds up.
func (s *paymentService) GetCardAccount(ctx context.Context, accountID string) (*dto.CardAccountResponse, error) {
	account, err := s.cardRepo.FindCardAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	available := account.CreditLimit.Sub(account.Balance)
	if available.LessThan(decimal.Zero) {
		available = decimal.Zero
	}
	available = money.RoundDownToStep(available, s.profile.SmallestUnit())

	return &dto.CardAccountResponse{
		AccountID:       account.AccountID,
		CardNumber:      account.CardNumber,
		HolderName:      account.HolderName,
		Balance:         account.Balance,
		CreditLimit:     account.CreditLimit,
		AvailableCredit: available,
		MinimumPayment:  minimumPayment(account.Balance, s.cfg.MinPaymentRate, s.cfg.MinPaymentFloor),
	}, nil
}
