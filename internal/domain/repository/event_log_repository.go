package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
)

// EventLogRepository define el puerto de la traza de auditoría de ambos
// canales (solo inserciones) y su lectura para el reporte de latencias.
type EventLogRepository interface {
	Append(ctx context.Context, record *entity.EventLogRecord) error
	// ListByChannel devuelve los registros de un canal con latencia medida
	// desde el instante dado, ordenados por latencia ascendente.
	ListByChannel(ctx context.Context, channel string, since time.Time) ([]entity.EventLogRecord, error)
}
