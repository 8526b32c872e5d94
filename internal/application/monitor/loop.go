package monitor

import (
	"context"
	"time"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// Loop es el ciclo de monitoreo del nodo: en cada tick simula el consumo del
// día, muta el ledger, evalúa el umbral y, en ruptura, despacha por ambos
// canales. El tick es estrictamente secuencial y no reentrante; un tick lento
// retrasa al siguiente. La cancelación ocurre entre ticks, nunca a mitad de
// una escritura al ledger.
type Loop struct {
	hospitalID  string
	productCode string
	interval    time.Duration

	simulator       *Simulator
	stockRepo       repository.StockRepository
	consumptionRepo repository.ConsumptionRepository
	evaluator       *Evaluator
	coordinator     *Coordinator
	log             *logger.Logger
	now             func() time.Time
}

// LoopDeps dependencias del ciclo de monitoreo.
type LoopDeps struct {
	HospitalID  string
	ProductCode string
	Interval    time.Duration

	Simulator       *Simulator
	StockRepo       repository.StockRepository
	ConsumptionRepo repository.ConsumptionRepository
	Evaluator       *Evaluator
	Coordinator     *Coordinator
	Log             *logger.Logger
	Now             func() time.Time
}

// NewLoop construye el ciclo de monitoreo.
func NewLoop(deps LoopDeps) *Loop {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Loop{
		hospitalID:      deps.HospitalID,
		productCode:     deps.ProductCode,
		interval:        deps.Interval,
		simulator:       deps.Simulator,
		stockRepo:       deps.StockRepo,
		consumptionRepo: deps.ConsumptionRepo,
		evaluator:       deps.Evaluator,
		coordinator:     deps.Coordinator,
		log:             deps.Log,
		now:             now,
	}
}

// Run ejecuta ticks hasta que el contexto se cancele. Ninguna falla de un
// tick individual termina el loop: se loguea y se continúa con el siguiente.
func (l *Loop) Run(ctx context.Context) error {
	iteration := 0
	for {
		iteration++
		l.log.Info().Int("iteration", iteration).Msg("iniciando tick de monitoreo")
		l.Tick(ctx)

		select {
		case <-ctx.Done():
			l.log.Info().Msg("loop de monitoreo detenido")
			return ctx.Err()
		case <-time.After(l.interval):
		}
	}
}

// Tick ejecuta una iteración completa: leer ledger → simular → aplicar
// consumo → evaluar umbral → (condicional) despacho dual.
func (l *Loop) Tick(ctx context.Context) {
	snapshot, err := l.stockRepo.Get(ctx, l.hospitalID, l.productCode)
	if err != nil {
		l.log.Warn().Err(err).Msg("no se pudo leer el ledger, se reintenta en el próximo tick")
		return
	}

	consumed := l.simulator.Simulate(snapshot.DailyConsumptionUnits)
	l.applyConsumption(ctx, snapshot, consumed)

	breached, _, breachSnapshot := l.evaluator.Evaluate(ctx)
	if !breached {
		l.log.Info().
			Str("days_of_supply", snapshot.DaysOfSupply.StringFixed(2)).
			Msg("stock suficiente")
		return
	}

	l.coordinator.NotifyBreach(ctx, breachSnapshot)
}

// applyConsumption descuenta el consumo del ledger y agrega la fila de
// historial. La fila de historial es best-effort: su falla no revierte la
// mutación del ledger.
func (l *Loop) applyConsumption(ctx context.Context, snapshot *entity.StockSnapshot, consumed int) {
	today := l.now()
	opening := snapshot.CurrentStockUnits

	snapshot.ApplyConsumption(consumed, today)
	if err := l.stockRepo.Update(ctx, snapshot); err != nil {
		l.log.Warn().Err(err).Msg("no se pudo actualizar el ledger")
		return
	}

	event := &entity.ConsumptionEvent{
		HospitalID:    l.hospitalID,
		ProductCode:   l.productCode,
		Date:          today,
		UnitsConsumed: consumed,
		OpeningStock:  opening,
		ClosingStock:  snapshot.CurrentStockUnits,
		DayOfWeek:     today.Weekday().String(),
		IsWeekend:     isWeekend(today),
	}
	if err := l.consumptionRepo.Append(ctx, event); err != nil {
		l.log.Warn().Err(err).Msg("no se pudo registrar el historial de consumo")
	}

	l.log.Info().
		Int("consumed", consumed).
		Int("opening_stock", opening).
		Int("closing_stock", snapshot.CurrentStockUnits).
		Str("days_of_supply", snapshot.DaysOfSupply.StringFixed(2)).
		Msg("consumo aplicado al ledger")
}
