package postgres

import (
	"context"
	"time"

	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
)

var _ repository.EventLogRepository = (*EventLogRepo)(nil)

// EventLogRepo traza de auditoría sobre PostgreSQL (solo inserciones).
type EventLogRepo struct {
	q Querier
}

// NewEventLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEventLogRepository(q Querier) *EventLogRepo {
	return &EventLogRepo{q: q}
}

// Append agrega un registro de auditoría.
func (r *EventLogRepo) Append(ctx context.Context, record *entity.EventLogRecord) error {
	query := `
		INSERT INTO event_log
		(event_type, direction, channel, payload, status, error_message, latency_ms, timestamp)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`
	ts := record.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.q.Exec(ctx, query,
		record.EventType, record.Direction, record.Channel, record.Payload,
		record.Status, record.ErrorMessage, record.LatencyMs, ts,
	)
	if err != nil {
		return domain.NewStoreError("append event log", err)
	}
	return nil
}

// ListByChannel devuelve los registros con latencia medida de un canal desde
// el instante dado, ordenados por latencia ascendente (insumo del reporte de
// percentiles).
func (r *EventLogRepo) ListByChannel(ctx context.Context, channel string, since time.Time) ([]entity.EventLogRecord, error) {
	query := `
		SELECT id, event_type, direction, channel, payload, status,
		       COALESCE(error_message, ''), latency_ms, timestamp
		FROM event_log
		WHERE channel = $1 AND timestamp > $2 AND latency_ms IS NOT NULL
		ORDER BY latency_ms`
	rows, err := r.q.Query(ctx, query, channel, since)
	if err != nil {
		return nil, domain.NewStoreError("list event log", err)
	}
	defer rows.Close()

	var records []entity.EventLogRecord
	for rows.Next() {
		var rec entity.EventLogRecord
		if err := rows.Scan(
			&rec.ID, &rec.EventType, &rec.Direction, &rec.Channel, &rec.Payload,
			&rec.Status, &rec.ErrorMessage, &rec.LatencyMs, &rec.Timestamp,
		); err != nil {
			return nil, domain.NewStoreError("scan event log", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("iterate event log", err)
	}
	return records, nil
}
