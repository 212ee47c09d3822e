package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/cash"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	portssvc "github.com/branchpay/teller_backend/internal/core/ports/services"
	"github.com/branchpay/teller_backend/internal/dto"
	"github.com/branchpay/teller_backend/internal/middleware"
	"github.com/branchpay/teller_backend/internal/platform/config"
	"github.com/shopspring/decimal"
)

// drawerService owns the per-operator denomination ledger.
type drawerService struct {
	drawerRepo portsrepo.DrawerRepositoryFacade
	auditRepo  portsrepo.AuditRepositoryFacade
	profile    cash.Profile
	now        func() time.Time
}

// NewDrawerService creates a new drawer service.
func NewDrawerService(repos portsrepo.RepositoryProvider, cfg *config.Config) portssvc.DrawerSvcFacade {
	profile, ok := cash.ProfileByName(cfg.CurrencyProfile)
	if !ok {
		profile, _ = cash.ProfileByName(cash.ProfileStandard)
	}
	return &drawerService{
		drawerRepo: repos.DrawerRepo,
		auditRepo:  repos.AuditRepo,
		profile:    profile,
		now:        time.Now,
	}
}

// Ensure drawerService implements the portssvc.DrawerSvcFacade interface
var _ portssvc.DrawerSvcFacade = (*drawerService)(nil)

// RecordEntries persists denomination entries for a transaction, applies
// their drawer effect and returns the total amount recorded.
func (s *drawerService) RecordEntries(ctx context.Context, transactionID string, entries []domain.DenominationEntry, actorID string) (decimal.Decimal, error) {
	if len(entries) == 0 {
		return decimal.Zero, apperrors.NewAppError(400, "no denomination entries supplied", apperrors.ErrValidation)
	}
	if err := cash.ValidateEntries(s.profile, entries); err != nil {
		return decimal.Zero, err
	}

	now := s.now()
	total := decimal.Zero
	for i := range entries {
		entries[i].EntryID = uuid.NewString()
		entries[i].TransactionID = transactionID
		entries[i].Amount = entries[i].Denomination.Mul(decimal.NewFromInt(int64(entries[i].Quantity)))
		entries[i].AuditFields = domain.AuditFields{CreatedAt: now, CreatedBy: actorID, LastUpdatedAt: now, LastUpdatedBy: actorID}
		total = total.Add(entries[i].Amount)
	}

	if err := s.drawerRepo.RecordEntries(ctx, actorID, entries); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GetDrawerBalance returns the operator's per-denomination inventory.
func (s *drawerService) GetDrawerBalance(ctx context.Context, operatorID string) (*dto.DrawerResponse, error) {
	balances, err := s.drawerRepo.GetDrawerBalances(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDrawerResponse(operatorID, balances)
	return &resp, nil
}

// AdjustDrawer applies a manual refill or pickup to one denomination and
// records it in the audit trail.
func (s *drawerService) AdjustDrawer(ctx context.Context, operatorID string, req dto.AdjustDrawerRequest, actorID string) (*dto.DrawerResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.profile.Contains(req.Denomination) {
		return nil, apperrors.NewAppError(400, "unknown denomination "+req.Denomination.String(), apperrors.ErrValidation)
	}
	delta := req.Quantity
	if req.Op == dto.DrawerOpSubtract {
		delta = -delta
	}

	now := s.now()
	if err := s.drawerRepo.AdjustDenomination(ctx, operatorID, req.Denomination, delta, actorID, now); err != nil {
		return nil, err
	}
	if err := s.auditRepo.SaveAuditEntry(ctx, domain.AuditEntry{
		EntryID:    uuid.NewString(),
		Action:     domain.AuditDrawerAdjusted,
		EntityType: "drawer",
		EntityID:   operatorID,
		Reason:     req.Reason,
		ActorID:    actorID,
		OccurredAt: now,
	}); err != nil {
		return nil, err
	}

	logger.Info("drawer adjusted",
		slog.String("operator_id", operatorID),
		slog.String("denomination", req.Denomination.String()),
		slog.Int("delta", delta),
	)
	return s.GetDrawerBalance(ctx, operatorID)
}

// ComputeChange computes an exact change breakdown constrained by the
// supplied inventory, or the operator's drawer when none is supplied.
func (s *drawerService) ComputeChange(ctx context.Context, operatorID string, req dto.ComputeChangeRequest) (*dto.ComputeChangeResponse, error) {
	inventory := cash.Inventory{}
	if len(req.Inventory) > 0 {
		for _, line := range req.Inventory {
			if !s.profile.Contains(line.Denomination) {
				return nil, apperrors.NewAppError(400, "unknown denomination "+line.Denomination.String(), apperrors.ErrValidation)
			}
			inventory[cash.Key(line.Denomination)] += line.Quantity
		}
	} else {
		balances, err := s.drawerRepo.GetDrawerBalances(ctx, operatorID)
		if err != nil {
			return nil, err
		}
		for _, b := range balances {
			inventory[cash.Key(b.Denomination)] += b.Quantity
		}
	}

	lines, err := cash.ComputeChange(s.profile, req.Amount, inventory)
	if err != nil {
		return nil, err
	}
	return &dto.ComputeChangeResponse{Amount: req.Amount, Entries: lines}, nil
}
