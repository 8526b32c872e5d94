package monitor

import (
	"context"
	"sync"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// Coordinator invoca los dos canales de notificación sobre una ruptura
// confirmada y produce el resumen comparativo de latencias. Ambos canales
// corren de forma independiente: la falla de uno no bloquea ni altera al
// otro, y los dos deben completar antes de emitir el resumen.
type Coordinator struct {
	dispatcher  Dispatcher
	publisher   Publisher
	maxAttempts int
	log         *logger.Logger
}

// NewCoordinator construye el coordinador con los dos canales inyectados.
func NewCoordinator(dispatcher Dispatcher, publisher Publisher, maxAttempts int, log *logger.Logger) *Coordinator {
	return &Coordinator{
		dispatcher:  dispatcher,
		publisher:   publisher,
		maxAttempts: maxAttempts,
		log:         log,
	}
}

// NotifyBreach envía el snapshot por ambos canales y espera a que ambos
// terminen (éxito, reintentos agotados o timeout). El resumen es solo
// observacional: ningún resultado dispara un reintento del otro canal.
func (c *Coordinator) NotifyBreach(ctx context.Context, snapshot *entity.StockSnapshot) entity.ComparisonSummary {
	var (
		wg          sync.WaitGroup
		rpcResult   entity.DispatchResult
		eventResult entity.DispatchResult
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		rpcResult = c.dispatcher.Dispatch(ctx, snapshot, c.maxAttempts)
	}()
	go func() {
		defer wg.Done()
		eventResult = c.publisher.Publish(ctx, snapshot)
	}()
	wg.Wait()

	summary := entity.ComparisonSummary{
		RPCLatencyMs:   rpcResult.LatencyMs,
		RPCSuccess:     rpcResult.Success,
		EventLatencyMs: eventResult.LatencyMs,
		EventSuccess:   eventResult.Success,
	}

	c.log.Info().
		Bool("rpc_success", summary.RPCSuccess).
		Int64("rpc_latency_ms", summary.RPCLatencyMs).
		Int("rpc_attempts", rpcResult.Attempts).
		Bool("event_success", summary.EventSuccess).
		Int64("event_latency_ms", summary.EventLatencyMs).
		Msg("comparación de canales tras ruptura")

	return summary
}
