package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación del ledger de stock sobre PostgreSQL (usable con
// pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la fila del ledger para (hospital, producto).
func (r *StockRepo) Get(ctx context.Context, hospitalID, productCode string) (*entity.StockSnapshot, error) {
	query := `
		SELECT hospital_id, product_code, current_stock_units, daily_consumption_units, days_of_supply, last_updated
		FROM stock
		WHERE hospital_id = $1 AND product_code = $2`
	var s entity.StockSnapshot
	err := r.q.QueryRow(ctx, query, hospitalID, productCode).Scan(
		&s.HospitalID, &s.ProductCode, &s.CurrentStockUnits,
		&s.DailyConsumptionUnits, &s.DaysOfSupply, &s.LastUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.NewStoreError("get stock", err)
	}
	return &s, nil
}

// Update persiste la mutación del tick (stock, cobertura, last_updated).
func (r *StockRepo) Update(ctx context.Context, snapshot *entity.StockSnapshot) error {
	query := `
		UPDATE stock
		SET current_stock_units = $1, days_of_supply = $2, last_updated = $3
		WHERE hospital_id = $4 AND product_code = $5`
	_, err := r.q.Exec(ctx, query,
		snapshot.CurrentStockUnits, snapshot.DaysOfSupply, snapshot.LastUpdated,
		snapshot.HospitalID, snapshot.ProductCode,
	)
	if err != nil {
		return domain.NewStoreError("update stock", err)
	}
	return nil
}
