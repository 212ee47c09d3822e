package pgsql

import (
	"context"
	"errors"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	"github.com/branchpay/teller_backend/internal/models"
	"github.com/branchpay/teller_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCardAccountRepository struct {
	BaseRepository
}

// newPgxCardAccountRepository creates a new repository for card accounts.
// Balance mutations only happen inside posting/rollback bundles, so this
// repository is read-only.
func newPgxCardAccountRepository(pool *pgxpool.Pool) portsrepo.CardAccountRepositoryFacade {
	return &PgxCardAccountRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCardAccountRepository implements portsrepo.CardAccountRepositoryFacade
var _ portsrepo.CardAccountRepositoryFacade = (*PgxCardAccountRepository)(nil)

// FindCardAccountByID retrieves a card account by its identifier.
func (r *PgxCardAccountRepository) FindCardAccountByID(ctx context.Context, accountID string) (*domain.CardAccount, error) {
	query := `
		SELECT account_id, card_number, holder_name, balance, credit_limit, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM card_accounts
		WHERE account_id = $1;
	`
	var m models.CardAccount
	err := r.Pool.QueryRow(ctx, query, accountID).Scan(
		&m.AccountID,
		&m.CardNumber,
		&m.HolderName,
		&m.Balance,
		&m.CreditLimit,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find card account by ID "+accountID, err)
	}

	account := mapping.ToDomainCardAccount(m)
	return &account, nil
}
