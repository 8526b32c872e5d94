package monitor_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-supply-chain/internal/application/monitor"
	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

type fakeConsumptionRepo struct {
	events    []*entity.ConsumptionEvent
	appendErr error
}

func (f *fakeConsumptionRepo) Append(_ context.Context, e *entity.ConsumptionEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.events = append(f.events, e)
	return nil
}

type loopFixture struct {
	loop        *monitor.Loop
	stock       *fakeStockRepo
	consumption *fakeConsumptionRepo
	alerts      *fakeAlertRepo
	dispatcher  *fakeDispatcher
	publisher   *fakePublisher
}

func newLoopFixture(snapshot *entity.StockSnapshot) *loopFixture {
	stock := &fakeStockRepo{snapshot: snapshot}
	consumption := &fakeConsumptionRepo{}
	alerts := &fakeAlertRepo{}
	dispatcher := &fakeDispatcher{result: entity.DispatchResult{Success: true, LatencyMs: 10, Attempts: 1}}
	publisher := &fakePublisher{result: entity.DispatchResult{Success: true, LatencyMs: 5, Attempts: 1}}

	loop := monitor.NewLoop(monitor.LoopDeps{
		HospitalID:      "Hospital-C",
		ProductCode:     "PHYSIO-SALINE-500ML",
		Interval:        time.Millisecond,
		Simulator:       monitor.NewSimulator(rand.New(rand.NewSource(3)), fixedNow(miercoles)),
		StockRepo:       stock,
		ConsumptionRepo: consumption,
		Evaluator: monitor.NewEvaluator(
			"Hospital-C", "PHYSIO-SALINE-500ML",
			decimal.NewFromFloat(2.0), stock, alerts, logger.Nop(),
		),
		Coordinator: monitor.NewCoordinator(dispatcher, publisher, 3, logger.Nop()),
		Log:         logger.Nop(),
		Now:         fixedNow(miercoles),
	})
	return &loopFixture{loop: loop, stock: stock, consumption: consumption, alerts: alerts, dispatcher: dispatcher, publisher: publisher}
}

func snapshotInicial(stockUnits int) *entity.StockSnapshot {
	s := &entity.StockSnapshot{
		HospitalID:            "Hospital-C",
		ProductCode:           "PHYSIO-SALINE-500ML",
		CurrentStockUnits:     stockUnits,
		DailyConsumptionUnits: 100,
	}
	s.RecalculateDaysOfSupply()
	return s
}

// TestTick_AplicaConsumoYRegistraHistorial verifica el flujo completo de un
// tick sin ruptura: el ledger se descuenta, se agrega una fila de historial y
// no se invoca ningún canal de notificación.
func TestTick_AplicaConsumoYRegistraHistorial(t *testing.T) {
	fx := newLoopFixture(snapshotInicial(10000)) // ~100 días de cobertura
	opening := fx.stock.snapshot.CurrentStockUnits

	fx.loop.Tick(context.Background())

	assert.Equal(t, 1, fx.stock.updates, "cada tick escribe el ledger una vez")
	assert.Less(t, fx.stock.snapshot.CurrentStockUnits, opening, "el consumo descuenta el stock")

	require.Len(t, fx.consumption.events, 1, "cada tick agrega una fila de historial")
	ev := fx.consumption.events[0]
	assert.Equal(t, opening, ev.OpeningStock)
	assert.Equal(t, fx.stock.snapshot.CurrentStockUnits, ev.ClosingStock)
	assert.Equal(t, opening-ev.UnitsConsumed, ev.ClosingStock)
	assert.False(t, ev.IsWeekend)

	assert.Equal(t, 0, fx.dispatcher.calls, "sin ruptura no hay despacho RPC")
	assert.Equal(t, 0, fx.publisher.calls, "sin ruptura no hay publicación de evento")
}

// TestTick_RupturaDespachaPorAmbosCanales verifica que con cobertura bajo el
// umbral el tick invoca ambos canales exactamente una vez.
func TestTick_RupturaDespachaPorAmbosCanales(t *testing.T) {
	fx := newLoopFixture(snapshotInicial(150)) // 1.5 días, ruptura garantizada

	fx.loop.Tick(context.Background())

	assert.Equal(t, 1, fx.dispatcher.calls, "la ruptura despacha por el canal RPC")
	assert.Equal(t, 1, fx.publisher.calls, "la ruptura publica por el canal de eventos")
	assert.Len(t, fx.alerts.alerts, 1, "la ruptura registra una alerta")
}

// TestTick_LedgerNoDisponibleOmiteElTick verifica que con el ledger caído el
// tick se omite entero sin tocar historial ni canales.
func TestTick_LedgerNoDisponibleOmiteElTick(t *testing.T) {
	fx := newLoopFixture(snapshotInicial(150))
	fx.stock.getErr = domain.NewStoreError("stock.Get", errors.New("sin conexión"))

	fx.loop.Tick(context.Background())

	assert.Equal(t, 0, fx.stock.updates)
	assert.Empty(t, fx.consumption.events)
	assert.Equal(t, 0, fx.dispatcher.calls)
	assert.Equal(t, 0, fx.publisher.calls)
}

// TestTick_FallaDeHistorialNoRevierteElLedger verifica que la fila de
// historial es best-effort: su falla no impide la mutación del ledger.
func TestTick_FallaDeHistorialNoRevierteElLedger(t *testing.T) {
	fx := newLoopFixture(snapshotInicial(10000))
	fx.consumption.appendErr = errors.New("tabla de consumo no disponible")

	fx.loop.Tick(context.Background())

	assert.Equal(t, 1, fx.stock.updates, "el ledger se actualiza aunque el historial falle")
}

// TestRun_SeDetieneConElContexto verifica que Run ejecuta ticks hasta la
// cancelación y devuelve el error del contexto.
func TestRun_SeDetieneConElContexto(t *testing.T) {
	fx := newLoopFixture(snapshotInicial(10000))

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := fx.loop.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, fx.stock.updates, 1, "al menos un tick debe haberse ejecutado")
}
