package pgsql

import (
	"context"
	"strconv"

	"github.com/branchpay/teller_backend/internal/apperrors"
	"github.com/branchpay/teller_backend/internal/core/domain"
	portsrepo "github.com/branchpay/teller_backend/internal/core/ports/repositories"
	"github.com/branchpay/teller_backend/internal/models"
	"github.com/branchpay/teller_backend/internal/utils/mapping"
	"github.com/branchpay/teller_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepositoryFacade
var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

const insertAuditQuery = `
	INSERT INTO audit_entries (entry_id, action, entity_type, entity_id, before_status, after_status, reason, actor_id, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// insertAuditEntryTx appends an audit record inside an existing database
// transaction, so the record commits or aborts with the work it describes.
func insertAuditEntryTx(ctx context.Context, tx pgx.Tx, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditEntry(entry)
	_, err := tx.Exec(ctx, insertAuditQuery,
		m.EntryID, m.Action, m.EntityType, m.EntityID, m.BeforeStatus, m.AfterStatus, m.Reason, m.ActorID, m.OccurredAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit entry for "+m.EntityID, err)
	}
	return nil
}

// SaveAuditEntry appends a standalone audit record.
func (r *PgxAuditRepository) SaveAuditEntry(ctx context.Context, entry domain.AuditEntry) error {
	m := mapping.ToModelAuditEntry(entry)
	_, err := r.Pool.Exec(ctx, insertAuditQuery,
		m.EntryID, m.Action, m.EntityType, m.EntityID, m.BeforeStatus, m.AfterStatus, m.Reason, m.ActorID, m.OccurredAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit entry for "+m.EntityID, err)
	}
	return nil
}

// ListAuditEntries retrieves a paginated list of audit entries, optionally
// filtered to one entity, newest first, using token-based pagination.
func (r *PgxAuditRepository) ListAuditEntries(ctx context.Context, entityID string, limit int, nextToken *string) ([]domain.AuditEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT entry_id, action, entity_type, entity_id, before_status, after_status, reason, actor_id, occurred_at
		FROM audit_entries
		WHERE ($1 = '' OR entity_id = $1)
	`
	orderByClause := `ORDER BY occurred_at DESC, entry_id DESC`

	args := []any{entityID}
	query := baseQuery
	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (occurred_at, entry_id) < ($2, $3)`
		args = append(args, lastOccurredAt, lastID)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query audit entries", err)
	}
	defer rows.Close()

	entries := []domain.AuditEntry{}
	for rows.Next() {
		var m models.AuditEntry
		err := rows.Scan(
			&m.EntryID,
			&m.Action,
			&m.EntityType,
			&m.EntityID,
			&m.BeforeStatus,
			&m.AfterStatus,
			&m.Reason,
			&m.ActorID,
			&m.OccurredAt,
		)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit entry row", err)
		}
		entries = append(entries, mapping.ToDomainAuditEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating audit entry rows", err)
	}

	var newNextToken *string
	if len(entries) == fetchLimit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.EntryID)
		newNextToken = &token
	}

	return entries, newNextToken, nil
}
