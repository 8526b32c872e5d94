package orders

import (
	"context"

	"github.com/jhoicas/hospital-supply-chain/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la verificación de duplicados
// y la inserción de la orden sean una unidad atómica (nunca check-then-act
// sin atomicidad).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		eventRepo repository.EventLogRepository,
	) error) error
}
