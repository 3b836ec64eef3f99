package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PauGgimenez/Practica4/internal/outbox"
)

// OutboxRepository serves the relay. Rows are inserted by
// OrderRepository.AppendEvent inside order transactions.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Record, error) {
	const query = `
SELECT id, topic, event_type, key, payload, created_at, sent_at
FROM outbox
WHERE sent_at IS NULL
ORDER BY id ASC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending: %w", err)
	}
	defer rows.Close()

	var records []outbox.Record
	for rows.Next() {
		var rec outbox.Record
		if err := rows.Scan(&rec.ID, &rec.Topic, &rec.EventType, &rec.Key, &rec.Payload, &rec.CreatedAt, &rec.SentAt); err != nil {
			return nil, fmt.Errorf("scan outbox record: %w", err)
		}
		records = append(records, rec)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate outbox: %w", rows.Err())
	}
	return records, nil
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id int64) error {
	const stmt = `UPDATE outbox SET sent_at = NOW() WHERE id = $1 AND sent_at IS NULL`

	if _, err := r.pool.Exec(ctx, stmt, id); err != nil {
		return fmt.Errorf("mark sent: %w", err)
	}
	return nil
}
