package pgsql

import (
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	transactionRepo := newPgxTransactionRepository(dbPool)
	drawerRepo := newPgxDrawerRepository(dbPool)
	cardAccountRepo := newPgxCardAccountRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)
	snapshotRepo := newPgxSnapshotRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TransactionRepo: transactionRepo,
		DrawerRepo:      drawerRepo,
		CardAccountRepo: cardAccountRepo,
		AuditRepo:       auditRepo,
		SnapshotRepo:    snapshotRepo,
	}
}
