package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

// AppendStatusChange inserts a history row. The table is append-only:
// ListStatusChanges in id order replays the lifecycle of an entity.
func (r *repo) AppendStatusChange(ctx context.Context, c domain.StatusChange) error {
	const q = `
		INSERT INTO status_history
			(entity, entity_id, field, from_status, to_status, trace_id, span_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if _, err := r.exec(ctx, q, c.Entity, c.EntityID, c.Field, c.From, c.To, c.TraceID, c.SpanID,
		r.d.ts(c.CreatedAt)); err != nil {
		return fmt.Errorf("sqlstore: append %s history for %q: %w", c.Entity, c.EntityID, err)
	}
	return nil
}

func (r *repo) ListStatusChanges(ctx context.Context, entity, entityID string) ([]domain.StatusChange, error) {
	const q = `
		SELECT entity, entity_id, field, from_status, to_status, trace_id, span_id, created_at
		FROM   status_history
		WHERE  entity = ? AND entity_id = ?
		ORDER  BY id`
	rows, err := r.query(ctx, q, entity, entityID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: list %s history for %q: %w", entity, entityID, err)
	}
	defer rows.Close()

	var out []domain.StatusChange
	for rows.Next() {
		var c domain.StatusChange
		if err := rows.Scan(&c.Entity, &c.EntityID, &c.Field, &c.From, &c.To, &c.TraceID, &c.SpanID,
			timeCol{&c.CreatedAt}); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
