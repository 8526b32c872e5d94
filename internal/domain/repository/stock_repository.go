package repository

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
)

// StockRepository define el puerto del ledger de stock para la clave
// (hospital, producto). El loop de monitoreo es su único escritor.
type StockRepository interface {
	Get(ctx context.Context, hospitalID, productCode string) (*entity.StockSnapshot, error)
	Update(ctx context.Context, snapshot *entity.StockSnapshot) error
}

// ConsumptionRepository define el puerto del historial de consumo
// (solo inserciones, una fila por tick de simulación).
type ConsumptionRepository interface {
	Append(ctx context.Context, event *entity.ConsumptionEvent) error
}
