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
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/branchpay/teller_backend/internal/metrics"
	"github.com/branchpay/teller_backend/internal/middleware"
	"github.com/branchpay/teller_backend/internal/platform/config"
)

// recoveryService owns rollback, retry and snapshot/restore.
type recoveryService struct {
	txnRepo      portsrepo.TransactionRepositoryFacade
	drawerRepo   portsrepo.DrawerRepositoryFacade
	auditRepo    portsrepo.AuditRepositoryFacade
	snapshotRepo portsrepo.SnapshotRepositoryFacade
	cfg          *config.Config
	now          func() time.Time
	sleep        func(ctx context.Context, d time.Duration) error
}

// NewRecoveryService creates a new recovery service.
func NewRecoveryService(repos portsrepo.RepositoryProvider, cfg *config.Config) portssvc.RecoverySvcFacade {
	return &recoveryService{
		txnRepo:      repos.TransactionRepo,
		drawerRepo:   repos.DrawerRepo,
		auditRepo:    repos.AuditRepo,
		snapshotRepo: repos.SnapshotRepo,
		cfg:          cfg,
		now:          time.Now,
		sleep:        sleepCtx,
	}
}

// Ensure recoveryService implements the portssvc.RecoverySvcFacade interface
var _ portssvc.RecoverySvcFacade = (*recoveryService)(nil)

// sleepCtx waits for the duration or for the context, whichever ends first.
// No locks are held while waiting.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *recoveryService) eligibility(txn *domain.Transaction) dto.RollbackEligibility {
	switch txn.Status {
	case domain.StatusRolledBack:
		return dto.RollbackEligibility{Reason: "transaction is already rolled back"}
	case domain.StatusCancelled:
		return dto.RollbackEligibility{Reason: "cancelled transactions cannot be rolled back"}
	}
	if age := s.now().Sub(txn.CreatedAt); age > s.cfg.RollbackWindow {
		return dto.RollbackEligibility{Reason: fmt.Sprintf("transaction is older than the rollback window of %s", s.cfg.RollbackWindow)}
	}
	return dto.RollbackEligibility{Allowed: true}
}

// CanRollback reports whether the transaction may be rolled back, with the
// specific refusal reason when it may not.
func (s *recoveryService) CanRollback(ctx context.Context, transactionID string) (*dto.RollbackEligibility, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	elig := s.eligibility(txn)
	return &elig, nil
}

// Rollback marks the transaction RolledBack, reverses its drawer movement and
// card debit, appends the reason to the notes and records the audit entry,
// all within one unit of work. A failed reversal leaves everything untouched
// and is itself recorded in the audit trail.
func (s *recoveryService) Rollback(ctx context.Context, transactionID, reason, actorID string) (*dto.RollbackResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if elig := s.eligibility(txn); !elig.Allowed {
		return nil, apperrors.NewAppError(409, elig.Reason, apperrors.ErrStateConflict)
	}

	entries, err := s.drawerRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	// Reverse the original movement: cash taken in goes back out, change
	// dispensed comes back in.
	deltas := map[string]int{}
	for _, e := range entries {
		switch e.EntryType {
		case domain.EntryReceived:
			deltas[cash.Key(e.Denomination)] -= e.Quantity
		case domain.EntryChange:
			deltas[cash.Key(e.Denomination)] += e.Quantity
		}
	}

	var cardCredit *portsrepo.CardDebit
	if txn.TransactionType == domain.CardPayment && txn.CardAccountID != "" {
		cardCredit = &portsrepo.CardDebit{AccountID: txn.CardAccountID, Amount: txn.TotalAmount}
	}

	now := s.now()
	previousStatus := txn.Status
	updated := *txn
	updated.Notes = strings.TrimSpace(txn.Notes + fmt.Sprintf("\n[rolled back %s by %s] %s", now.Format(time.RFC3339), actorID, reason))
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = actorID

	bundle := portsrepo.RollbackBundle{
		Transaction:  updated,
		DrawerDeltas: deltas,
		CardCredit:   cardCredit,
		Audit: domain.AuditEntry{
			EntryID:      uuid.NewString(),
			Action:       domain.AuditRollbackApplied,
			EntityType:   "transaction",
			EntityID:     transactionID,
			BeforeStatus: string(previousStatus),
			AfterStatus:  string(domain.StatusRolledBack),
			Reason:       reason,
			ActorID:      actorID,
			OccurredAt:   now,
		},
	}
	if err := s.txnRepo.ApplyRollback(ctx, bundle); err != nil {
		logger.Error("rollback failed", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		// Best-effort trail entry; the original failure is what gets reported.
		_ = s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
			EntryID:      uuid.NewString(),
			Action:       domain.AuditRollbackFailed,
			EntityType:   "transaction",
			EntityID:     transactionID,
			BeforeStatus: string(previousStatus),
			Reason:       err.Error(),
			ActorID:      actorID,
			OccurredAt:   s.now(),
		})
		return nil, err
	}

	metrics.RollbacksTotal.Inc()
	logger.Info("transaction rolled back",
		slog.String("transaction_id", transactionID),
		slog.String("previous_status", string(previousStatus)),
	)
	return &dto.RollbackResult{
		TransactionID:  transactionID,
		PreviousStatus: string(previousStatus),
		Status:         string(domain.StatusRolledBack),
		Reason:         reason,
		RolledBackAt:   now,
	}, nil
}

// Retry re-drives a Failed transaction through Pending towards Completed with
// exponential backoff between attempts. The configured maximum is a hard cap
// on whatever the caller asks for.
func (s *recoveryService) Retry(ctx context.Context, transactionID string, maxAttempts int, actorID string) (*dto.RetryResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusFailed {
		return nil, apperrors.NewAppError(409, "transaction "+transactionID+" is in status "+string(txn.Status)+", only FAILED transactions can be retried", apperrors.ErrStateConflict)
	}

	if maxAttempts <= 0 || maxAttempts > s.cfg.RetryMaxAttempts {
		maxAttempts = s.cfg.RetryMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		metrics.RetryAttempts.Inc()
		now := s.now()
		_ = s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
			EntryID:      uuid.NewString(),
			Action:       domain.AuditRetryAttempt,
			EntityType:   "transaction",
			EntityID:     transactionID,
			BeforeStatus: string(domain.StatusFailed),
			AfterStatus:  string(domain.StatusPending),
			Reason:       fmt.Sprintf("retry attempt %d/%d", attempt, maxAttempts),
			ActorID:      actorID,
			OccurredAt:   now,
		})

		if err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.StatusFailed, domain.StatusPending, nil, actorID, now); err != nil {
			// Someone else moved it; report the conflict rather than loop on.
			return nil, err
		}

		completedAt := s.now()
		err := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.StatusPending, domain.StatusCompleted, &completedAt, actorID, completedAt)
		if err == nil {
			logger.Info("retry succeeded", slog.String("transaction_id", transactionID), slog.Int("attempts", attempt))
			_ = s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
				EntryID:      uuid.NewString(),
				Action:       domain.AuditRetryAttempt,
				EntityType:   "transaction",
				EntityID:     transactionID,
				BeforeStatus: string(domain.StatusPending),
				AfterStatus:  string(domain.StatusCompleted),
				Reason:       fmt.Sprintf("retry attempt %d/%d succeeded", attempt, maxAttempts),
				ActorID:      actorID,
				OccurredAt:   completedAt,
			})
			return &dto.RetryResult{
				TransactionID: transactionID,
				Success:       true,
				Attempts:      attempt,
				FinalStatus:   string(domain.StatusCompleted),
			}, nil
		}
		logger.Warn("retry attempt failed",
			slog.String("transaction_id", transactionID),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)

		// Park the transaction back in Failed before backing off.
		if parkErr := s.txnRepo.UpdateTransactionStatus(ctx, transactionID, domain.StatusPending, domain.StatusFailed, nil, actorID, s.now()); parkErr != nil {
			return nil, parkErr
		}
		_ = s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
			EntryID:      uuid.NewString(),
			Action:       domain.AuditRetryAttempt,
			EntityType:   "transaction",
			EntityID:     transactionID,
			BeforeStatus: string(domain.StatusPending),
			AfterStatus:  string(domain.StatusFailed),
			Reason:       fmt.Sprintf("retry attempt %d/%d failed: %s", attempt, maxAttempts, err.Error()),
			ActorID:      actorID,
			OccurredAt:   s.now(),
		})
		if attempt < maxAttempts {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			if err := s.sleep(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}

	return &dto.RetryResult{
		TransactionID: transactionID,
		Success:       false,
		Attempts:      maxAttempts,
		FinalStatus:   string(domain.StatusFailed),
	}, nil
}

// Snapshot captures the transaction, its items and denomination entries as an
// immutable bundle.
func (s *recoveryService) Snapshot(ctx context.Context, transactionID, actorID string) (*dto.SnapshotResponse, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	items, err := s.txnRepo.FindItemsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	entries, err := s.drawerRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	snapshot := domain.TransactionSnapshot{
		SnapshotID:    uuid.NewString(),
		TransactionID: transactionID,
		Transaction:   *txn,
		Items:         items,
		Denominations: entries,
		TakenAt:       now,
		TakenBy:       actorID,
	}
	if err := s.snapshotRepo.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
		EntryID:    uuid.NewString(),
		Action:     domain.AuditSnapshotTaken,
		EntityType: "transaction",
		EntityID:   transactionID,
		Reason:     "snapshot " + snapshot.SnapshotID,
		ActorID:    actorID,
		OccurredAt: now,
	}); err != nil {
		return nil, err
	}

	return &dto.SnapshotResponse{
		SnapshotID:    snapshot.SnapshotID,
		TransactionID: transactionID,
		TakenAt:       now,
	}, nil
}

// Restore rewrites a transaction and its children from a stored snapshot.
func (s *recoveryService) Restore(ctx context.Context, snapshotID, actorID string) (*dto.TransactionResponse, error) {
	snapshot, err := s.snapshotRepo.FindSnapshotByID(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	restored := snapshot.Transaction
	restored.LastUpdatedAt = now
	restored.LastUpdatedBy = actorID
	toApply := *snapshot
	toApply.Transaction = restored

	audit := domain.AuditEntry{
		EntryID:     uuid.NewString(),
		Action:      domain.AuditSnapshotRestored,
		EntityType:  "transaction",
		EntityID:    snapshot.TransactionID,
		AfterStatus: string(restored.Status),
		Reason:      "restored from snapshot " + snapshotID,
		ActorID:     actorID,
		OccurredAt:  now,
	}
	if err := s.txnRepo.RestoreFromSnapshot(ctx, toApply, audit); err != nil {
		return nil, err
	}

	restored.Items = snapshot.Items
	resp := dto.ToTransactionResponse(&restored)
	return &resp, nil
}

// ListAudit retrieves a paginated page of the audit trail.
func (s *recoveryService) ListAudit(ctx context.Context, params dto.ListAuditParams) (*dto.ListAuditResponse, error) {
	entries, nextToken, err := s.auditRepo.ListAuditEntries(ctx, params.EntityID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListAuditResponse{NextToken: nextToken, Entries: make([]dto.AuditEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, dto.ToAuditEntryResponse(e))
	}
	return resp, nil
}
