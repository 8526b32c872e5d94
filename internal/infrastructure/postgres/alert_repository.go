package postgres

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo registro de alertas sobre PostgreSQL (solo inserciones).
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// Append agrega una alerta de ruptura de umbral.
func (r *AlertRepo) Append(ctx context.Context, alert *entity.Alert) error {
	query := `
		INSERT INTO alerts
		(hospital_id, alert_type, severity, current_stock, daily_consumption, days_of_supply, threshold, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		alert.HospitalID, alert.AlertType, alert.Severity,
		alert.CurrentStock, alert.DailyConsumption, alert.DaysOfSupply,
		alert.Threshold, alert.CreatedAt,
	)
	if err != nil {
		return domain.NewStoreError("append alert", err)
	}
	return nil
}
