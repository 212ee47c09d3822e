package repositories

import (
	"context"

	"github.com/branchpay/teller_backend/internal/core/domain"
)

// CardAccountReader defines read operations for card accounts.
type CardAccountReader interface {
	// FindCardAccountByID retrieves a card account by its identifier.
	FindCardAccountByID(ctx context.Context, accountID string) (*domain.CardAccount, error)
}

// CardAccountRepositoryFacade combines card account repository interfaces.
// Balance mutations only happen inside posting/rollback bundles, so there is
// no standalone writer.
type CardAccountRepositoryFacade interface {
	CardAccountReader
}
