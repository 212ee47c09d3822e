package repositories

import (
	"context"

	"github.com/branchpay/teller_backend/internal/core/domain"
)

// AuditWriter appends records to the audit trail. The trail is append-only;
// there are no update or delete operations by design of the data model.
type AuditWriter interface {
	SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error
}

// AuditReader defines read operations over the audit trail.
type AuditReader interface {
	// ListAuditEntries retrieves a paginated list of audit entries, optionally
	// filtered to one entity, newest first, using token-based pagination.
	ListAuditEntries(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.AuditEntry, *string, error)
}

// AuditRepositoryFacade combines audit repository interfaces.
type AuditRepositoryFacade interface {
	AuditReader
	AuditWriter
}
