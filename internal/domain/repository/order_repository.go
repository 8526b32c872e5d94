package repository

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/entity"
)

// OrderRepository define el puerto del almacén de órdenes. Las verificaciones
// de unicidad y la inserción deben ejecutarse dentro de una misma transacción
// (ver orders.TxRunner) para que la deduplicación sea atómica.
type OrderRepository interface {
	ExistsByOrderID(ctx context.Context, orderID string) (bool, error)
	ExistsByCommandID(ctx context.Context, commandID string) (bool, error)
	Create(ctx context.Context, cmd *entity.OrderCommand) error
	CountByOrderID(ctx context.Context, orderID string) (int, error)
}
