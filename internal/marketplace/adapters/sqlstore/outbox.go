package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func (r *repo) InsertOutbox(ctx context.Context, rec domain.OutboxRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := r.exec(ctx, `INSERT INTO outbox (event_id, type, msg_key, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.EventID, rec.Type, rec.Key, string(rec.Payload), r.d.ts(rec.CreatedAt))
	if err != nil {
		return fmt.Errorf("sqlstore: insert outbox %s: %w", rec.Type, err)
	}
	return nil
}

// FetchPendingOutbox returns up to limit unsent records, oldest first.
func (r *repo) FetchPendingOutbox(ctx context.Context, limit int) ([]domain.OutboxRecord, error) {
	rows, err := r.query(ctx, `
		SELECT id, event_id, type, msg_key, payload, created_at, sent_at
		FROM   outbox
		WHERE  sent_at IS NULL
		ORDER  BY id
		LIMIT  ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: fetch outbox: %w", err)
	}
	defer rows.Close()

	var out []domain.OutboxRecord
	for rows.Next() {
		var rec domain.OutboxRecord
		var payload string
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.Type, &rec.Key, &payload,
			timeCol{&rec.CreatedAt}, nullTimeCol{&rec.SentAt}); err != nil {
			return nil, err
		}
		rec.Payload = []byte(payload)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *repo) MarkOutboxSent(ctx context.Context, id int64, at time.Time) error {
	err := r.execOne(ctx, `UPDATE outbox SET sent_at = ? WHERE id = ? AND sent_at IS NULL`, r.d.ts(at), id)
	if errors.Is(err, errNoRows) {
		return domain.NewNotFound("pending outbox record", fmt.Sprint(id))
	}
	if err != nil {
		return fmt.Errorf("sqlstore: mark outbox %d sent: %w", id, err)
	}
	return nil
}
