package monitor

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
	"github.com/jhoicas/hospital-supply-chain/pkg/logger"
)

// Evaluator compara los días de cobertura del ledger contra el umbral
// configurado y registra una alerta por cada ruptura detectada.
type Evaluator struct {
	hospitalID  string
	productCode string
	threshold   decimal.Decimal
	stockRepo   repository.StockRepository
	alertRepo   repository.AlertRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewEvaluator construye el evaluador de umbral.
func NewEvaluator(
	hospitalID, productCode string,
	threshold decimal.Decimal,
	stockRepo repository.StockRepository,
	alertRepo repository.AlertRepository,
	log *logger.Logger,
) *Evaluator {
	return &Evaluator{
		hospitalID:  hospitalID,
		productCode: productCode,
		threshold:   threshold,
		stockRepo:   stockRepo,
		alertRepo:   alertRepo,
		log:         log,
		now:         time.Now,
	}
}

// Evaluate lee el ledger y decide si hay ruptura (cobertura estrictamente por
// debajo del umbral; exactamente en el umbral NO es ruptura). Con el almacén
// no disponible degrada a (false, nil, nil) y deja al llamador decidir.
// En ruptura agrega exactamente una alerta; si el registro de alertas falla
// se loguea y la ruptura sigue en pie.
func (e *Evaluator) Evaluate(ctx context.Context) (bool, *entity.Alert, *entity.StockSnapshot) {
	snapshot, err := e.stockRepo.Get(ctx, e.hospitalID, e.productCode)
	if err != nil {
		e.log.Warn().Err(err).Msg("ledger no disponible, se omite la evaluación")
		return false, nil, nil
	}

	if !snapshot.DaysOfSupply.LessThan(e.threshold) {
		return false, nil, snapshot
	}

	alertType, severity := Classify(snapshot.DaysOfSupply)
	alert := &entity.Alert{
		HospitalID:       e.hospitalID,
		AlertType:        alertType,
		Severity:         severity,
		CurrentStock:     snapshot.CurrentStockUnits,
		DailyConsumption: snapshot.DailyConsumptionUnits,
		DaysOfSupply:     snapshot.DaysOfSupply,
		Threshold:        e.threshold,
		CreatedAt:        e.now(),
	}

	if err := e.alertRepo.Append(ctx, alert); err != nil {
		e.log.Warn().Err(err).Msg("no se pudo registrar la alerta")
	}

	e.log.Info().
		Str("severity", severity).
		Str("alert_type", alertType).
		Str("days_of_supply", snapshot.DaysOfSupply.StringFixed(2)).
		Msg("ruptura de umbral detectada")

	return true, alert, snapshot
}

// Classify devuelve tipo y severidad de alerta según los días de cobertura:
// por debajo de 1.0 → CRITICAL_STOCK/URGENT; el resto (ya bajo el umbral de
// 2.0) → LOW_STOCK/HIGH.
func Classify(daysOfSupply decimal.Decimal) (alertType, severity string) {
	if daysOfSupply.LessThan(decimal.NewFromInt(1)) {
		return entity.AlertTypeCriticalStock, entity.SeverityUrgent
	}
	return entity.AlertTypeLowStock, entity.SeverityHigh
}
