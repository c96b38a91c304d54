package storage

import (
	"context"
	"time"

	"planivo-backend/internal/models"
)

func (s *Storage) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = []byte("{}")
	}

	query := `
		INSERT INTO audit_logs (org_id, actor_id, action, resource_type, resource_id, metadata, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return s.db.QueryRowContext(ctx, query,
		entry.OrgID, entry.ActorID, entry.Action, entry.ResourceType,
		nullIfEmpty(entry.ResourceID), metadata, entry.RecordedAt,
	).Scan(&entry.ID)
}

func (s *Storage) ListAuditLogs(ctx context.Context, orgID, action, resourceType string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	logs := make([]models.AuditLog, 0)
	query := `
		SELECT id, org_id, actor_id, action, resource_type, COALESCE(resource_id, '') AS resource_id, metadata, recorded_at
		FROM audit_logs
		WHERE org_id = $1
			AND ($2 = '' OR action = $2)
			AND ($3 = '' OR resource_type = $3)
		ORDER BY recorded_at DESC
		LIMIT $4
	`
	err := s.db.SelectContext(ctx, &logs, query, orgID, action, resourceType, limit)
	return logs, err
}

// PruneAuditLogs deletes entries recorded before the cutoff.
func (s *Storage) PruneAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE recorded_at < $1`, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
