package monitor

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
)

// Dispatcher define el puerto del canal RPC (ruta SOAP). La implementación
// concreta reintenta con backoff; para tests se inyecta un doble.
type Dispatcher interface {
	Dispatch(ctx context.Context, snapshot *entity.StockSnapshot, maxAttempts int) entity.DispatchResult
}

// Publisher define el puerto del canal de eventos (un solo intento).
type Publisher interface {
	Publish(ctx context.Context, snapshot *entity.StockSnapshot) entity.DispatchResult
}
