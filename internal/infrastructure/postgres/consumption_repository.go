package postgres

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
)

var _ repository.ConsumptionRepository = (*ConsumptionRepo)(nil)

// ConsumptionRepo historial de consumo sobre PostgreSQL (solo inserciones).
type ConsumptionRepo struct {
	q Querier
}

// NewConsumptionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConsumptionRepository(q Querier) *ConsumptionRepo {
	return &ConsumptionRepo{q: q}
}

// Append agrega la fila del tick al historial.
func (r *ConsumptionRepo) Append(ctx context.Context, event *entity.ConsumptionEvent) error {
	query := `
		INSERT INTO consumption_history
		(hospital_id, product_code, consumption_date, units_consumed, opening_stock, closing_stock, day_of_week, is_weekend)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		event.HospitalID, event.ProductCode, event.Date, event.UnitsConsumed,
		event.OpeningStock, event.ClosingStock, event.DayOfWeek, event.IsWeekend,
	)
	if err != nil {
		return domain.NewStoreError("append consumption", err)
	}
	return nil
}
