package postgres

import (
	"context"
	"database/sql"
	"time"

	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/repository"

	"github.com/google/uuid"
)

type auditLogRepository struct {
	db *sql.DB
}

func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedOn.IsZero() {
		entry.CreatedOn = time.Now()
	}
	query := `INSERT INTO audit_log (id, actor_id, actor_role, action, entity_type, entity_id, before_summary, after_summary, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.ActorID, entry.ActorRole, entry.Action,
		entry.EntityType, entry.EntityID, entry.Before, entry.After, entry.CreatedOn)
	return err
}

func (r *auditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID int32) ([]domain.AuditEntry, error) {
	query := `SELECT id, actor_id, actor_role, action, entity_type, entity_id, before_summary, after_summary, created_on
	          FROM audit_log WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &e.Action, &e.EntityType, &e.EntityID, &e.Before, &e.After, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
